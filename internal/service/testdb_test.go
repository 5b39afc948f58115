package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         glogger.Default.LogMode(glogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Module{},
		&model.Content{},
		&model.Enrollment{},
		&model.UserContentProgress{},
		&model.UserQuizAttempt{},
	))
	return db
}

type testRepos struct {
	user       *repository.UserRepository
	module     *repository.ModuleRepository
	content    *repository.ContentRepository
	enrollment *repository.EnrollmentRepository
	progress   *repository.ProgressRepository
	attempt    *repository.QuizAttemptRepository
}

func newTestRepos(db *gorm.DB) *testRepos {
	return &testRepos{
		user:       repository.NewUserRepository(db),
		module:     repository.NewModuleRepository(db),
		content:    repository.NewContentRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		progress:   repository.NewProgressRepository(db),
		attempt:    repository.NewQuizAttemptRepository(db),
	}
}

func seedUser(t *testing.T, db *gorm.DB, name string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedModule(t *testing.T, db *gorm.DB, lecturerID uint, published bool) *model.Module {
	t.Helper()
	m := &model.Module{
		Name:       "Go 基础",
		LecturerID: lecturerID,
		Published:  published,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func seedQuizContent(t *testing.T, db *gorm.DB, moduleID uint, def model.QuizDefinition) *model.Content {
	t.Helper()
	raw, err := json.Marshal(def)
	require.NoError(t, err)

	c := &model.Content{
		ModuleID:    moduleID,
		Title:       "章节测验",
		ContentType: model.Quizzes,
		QuizData:    raw,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedNotesContent(t *testing.T, db *gorm.DB, moduleID uint, title string) *model.Content {
	t.Helper()
	c := &model.Content{
		ModuleID:    moduleID,
		Title:       title,
		ContentType: model.Notes,
		ContentText: "正文",
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedEnrollment(t *testing.T, db *gorm.DB, learnerID, moduleID uint) *model.Enrollment {
	t.Helper()
	e := &model.Enrollment{
		LearnerID:  learnerID,
		ModuleID:   moduleID,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func twoQuestionQuiz() model.QuizDefinition {
	return model.QuizDefinition{
		{QuestionText: "1+1=?", Options: []string{"1", "2", "3"}, CorrectAnswerIndex: 1},
		{QuestionText: "2*2=?", Options: []string{"2", "3", "4"}, CorrectAnswerIndex: 2},
	}
}

package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProgressService(db *gorm.DB) (*ProgressService, *testRepos) {
	repos := newTestRepos(db)
	return NewProgressService(repos.module, repos.content, repos.enrollment, repos.progress), repos
}

func learnerClaims(u *model.User) *util.Claims {
	return &util.Claims{UserID: u.ID, Role: u.Role, Email: u.Email}
}

func TestGetModuleProgressEmptyModule(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newProgressService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	seedEnrollment(t, db, learner.ID, mod.ID)

	progress, err := svc.GetModuleProgress(learner.ID, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.TotalCount)
	assert.Equal(t, 0.0, progress.ProgressPercentage)
}

func TestMarkContentCompleteAdvancesProgress(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newProgressService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	c1 := seedNotesContent(t, db, mod.ID, "第一章")
	seedNotesContent(t, db, mod.ID, "第二章")
	seedEnrollment(t, db, learner.ID, mod.ID)

	require.NoError(t, svc.MarkContentComplete(learner.ID, c1.ID))

	progress, err := svc.GetModuleProgress(learner.ID, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.CompletedCount)
	assert.Equal(t, 2, progress.TotalCount)
	assert.Equal(t, 50.0, progress.ProgressPercentage)
}

func TestMarkContentCompleteIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newProgressService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	c1 := seedNotesContent(t, db, mod.ID, "第一章")
	seedEnrollment(t, db, learner.ID, mod.ID)

	require.NoError(t, svc.MarkContentComplete(learner.ID, c1.ID))
	require.NoError(t, svc.MarkContentComplete(learner.ID, c1.ID))

	var rows int64
	require.NoError(t, db.Model(&model.UserContentProgress{}).
		Where("learner_id = ? AND content_id = ?", learner.ID, c1.ID).
		Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	progress, err := svc.GetModuleProgress(learner.ID, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, progress.ProgressPercentage)
}

func TestMarkContentCompleteRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newProgressService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	c1 := seedNotesContent(t, db, mod.ID, "第一章")

	err := svc.MarkContentComplete(learner.ID, c1.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestMarkEnrollmentCompleteOwnershipCheck(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newProgressService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	other := seedUser(t, db, "other", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	e := seedEnrollment(t, db, learner.ID, mod.ID)

	err := svc.MarkEnrollmentComplete(other.ID, e.ID)
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)

	require.NoError(t, svc.MarkEnrollmentComplete(learner.ID, e.ID))

	var saved model.Enrollment
	require.NoError(t, db.First(&saved, e.ID).Error)
	assert.True(t, saved.Completed)
	assert.NotNil(t, saved.CompletedAt)
}

func TestGetModuleContentRedactsAnswersForLearner(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newProgressService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	seedQuizContent(t, db, mod.ID, twoQuestionQuiz())
	seedEnrollment(t, db, learner.ID, mod.ID)

	views, err := svc.GetModuleContent(learnerClaims(learner), mod.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.NotContains(t, string(views[0].QuizData), "correct_answer_index")
	assert.Contains(t, string(views[0].QuizData), "question_text")

	// 讲师本人能看到完整定义
	lectViews, err := svc.GetModuleContent(learnerClaims(lecturer), mod.ID)
	require.NoError(t, err)
	assert.Contains(t, string(lectViews[0].QuizData), "correct_answer_index")
}

func TestGetModuleContentLecturerOwnershipGate(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newProgressService(db)

	owner := seedUser(t, db, "owner", model.Lecturer)
	intruder := seedUser(t, db, "intruder", model.Lecturer)
	mod := seedModule(t, db, owner.ID, true)
	seedNotesContent(t, db, mod.ID, "第一章")

	_, err := svc.GetModuleContent(learnerClaims(intruder), mod.ID)
	assert.ErrorIs(t, err, util.ErrNotModuleOwner)
}

func TestGetModuleContentCompletionFlags(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newProgressService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	c1 := seedNotesContent(t, db, mod.ID, "第一章")
	seedNotesContent(t, db, mod.ID, "第二章")
	seedEnrollment(t, db, learner.ID, mod.ID)

	require.NoError(t, svc.MarkContentComplete(learner.ID, c1.ID))

	views, err := svc.GetModuleContent(learnerClaims(learner), mod.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].UserCompletedContent)
	assert.False(t, views[1].UserCompletedContent)
}

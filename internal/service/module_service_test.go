package service

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newModuleService(t *testing.T, db *gorm.DB) (*ModuleService, *testRepos) {
	t.Helper()
	repos := newTestRepos(db)
	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()
	return NewModuleService(repos.module, repos.content, NewStorageService(cfg)), repos
}

func TestCreateModuleRejectsNegativePrice(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newModuleService(t, db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)

	_, err := svc.CreateModule(learnerClaims(lecturer), CreateModuleRequest{Name: "课", Price: -1})
	assert.Error(t, err)
}

func TestUpdateModuleOwnershipGate(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newModuleService(t, db)

	owner := seedUser(t, db, "owner", model.Lecturer)
	intruder := seedUser(t, db, "intruder", model.Lecturer)
	mod := seedModule(t, db, owner.ID, false)

	name := "改名"
	_, err := svc.UpdateModule(learnerClaims(intruder), mod.ID, UpdateModuleRequest{Name: &name})
	assert.ErrorIs(t, err, util.ErrNotModuleOwner)

	published := true
	updated, err := svc.UpdateModule(learnerClaims(owner), mod.ID, UpdateModuleRequest{Name: &name, Published: &published})
	require.NoError(t, err)
	assert.Equal(t, "改名", updated.Name)
	assert.True(t, updated.Published)
}

func TestGetModuleHidesUnpublishedFromLearners(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newModuleService(t, db)

	owner := seedUser(t, db, "owner", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, owner.ID, false)

	_, err := svc.GetModule(learnerClaims(learner), mod.ID)
	assert.ErrorIs(t, err, util.ErrModuleNotFound)

	_, err = svc.GetModule(learnerClaims(owner), mod.ID)
	assert.NoError(t, err)
}

func TestDeleteModuleCascades(t *testing.T) {
	db := newTestDB(t)
	svc, repos := newModuleService(t, db)

	owner := seedUser(t, db, "owner", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, owner.ID, true)
	quiz := seedQuizContent(t, db, mod.ID, twoQuestionQuiz())
	seedNotesContent(t, db, mod.ID, "第一章")
	seedEnrollment(t, db, learner.ID, mod.ID)

	quizSvc := NewQuizService(repos.content, repos.enrollment, repos.attempt, repos.progress, db)
	_, err := quizSvc.SubmitAttempt(learner.ID, quiz.ID, []int{1, 2})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteModule(context.Background(), learnerClaims(owner), mod.ID))

	_, err = repos.module.FindByID(mod.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var contents, enrollments, attempts, progress int64
	require.NoError(t, db.Model(&model.Content{}).Where("module_id = ?", mod.ID).Count(&contents).Error)
	require.NoError(t, db.Model(&model.Enrollment{}).Where("module_id = ?", mod.ID).Count(&enrollments).Error)
	require.NoError(t, db.Model(&model.UserQuizAttempt{}).Where("content_id = ?", quiz.ID).Count(&attempts).Error)
	require.NoError(t, db.Model(&model.UserContentProgress{}).Where("content_id = ?", quiz.ID).Count(&progress).Error)
	assert.Zero(t, contents)
	assert.Zero(t, enrollments)
	assert.Zero(t, attempts)
	assert.Zero(t, progress)
}

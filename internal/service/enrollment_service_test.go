package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEnrollmentService(db *gorm.DB) (*EnrollmentService, *testRepos) {
	repos := newTestRepos(db)
	progress := NewProgressService(repos.module, repos.content, repos.enrollment, repos.progress)
	return NewEnrollmentService(repos.module, repos.enrollment, progress), repos
}

func TestEnrollHappyPath(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEnrollmentService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)

	e, err := svc.Enroll(learner.ID, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, learner.ID, e.LearnerID)
	assert.Equal(t, mod.ID, e.ModuleID)
	assert.False(t, e.Completed)
	assert.False(t, e.EnrolledAt.IsZero())
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEnrollmentService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)

	_, err := svc.Enroll(learner.ID, mod.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(learner.ID, mod.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnrollRejectsUnpublishedModule(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEnrollmentService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, false)

	_, err := svc.Enroll(learner.ID, mod.ID)
	assert.ErrorIs(t, err, util.ErrModuleUnpublished)
}

func TestEnrollRejectsPaidModule(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEnrollmentService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := &model.Module{Name: "付费课", LecturerID: lecturer.ID, Published: true, Price: 99.0}
	require.NoError(t, db.Create(mod).Error)

	_, err := svc.Enroll(learner.ID, mod.ID)
	assert.ErrorIs(t, err, util.ErrPaidModule)
}

func TestEnrollMissingModule(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEnrollmentService(db)

	learner := seedUser(t, db, "stud", model.Learner)

	_, err := svc.Enroll(learner.ID, 404)
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}

func TestEnrollUniqueIndexBacksUpRaceWindow(t *testing.T) {
	db := newTestDB(t)
	_, repos := newEnrollmentService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)

	seedEnrollment(t, db, learner.ID, mod.ID)

	// 绕过 Exists 预检直接写库，唯一索引必须拦下第二行
	err := repos.enrollment.Create(&model.Enrollment{LearnerID: learner.ID, ModuleID: mod.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestListForLearnerIncludesProgress(t *testing.T) {
	db := newTestDB(t)
	svc, repos := newEnrollmentService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	c1 := seedNotesContent(t, db, mod.ID, "第一章")
	seedNotesContent(t, db, mod.ID, "第二章")

	_, err := svc.Enroll(learner.ID, mod.ID)
	require.NoError(t, err)
	require.NoError(t, repos.progress.Upsert(db, learner.ID, c1.ID))

	views, err := svc.ListForLearner(learner.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 50.0, views[0].Progress.ProgressPercentage)
}

func TestListModuleLearnersOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newEnrollmentService(db)

	owner := seedUser(t, db, "owner", model.Lecturer)
	intruder := seedUser(t, db, "intruder", model.Lecturer)
	admin := seedUser(t, db, "boss", model.Admin)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, owner.ID, true)
	seedEnrollment(t, db, learner.ID, mod.ID)

	_, err := svc.ListModuleLearners(learnerClaims(intruder), mod.ID)
	assert.ErrorIs(t, err, util.ErrNotModuleOwner)

	views, err := svc.ListModuleLearners(learnerClaims(owner), mod.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, learner.ID, views[0].LearnerID)
	assert.Equal(t, "stud", views[0].Name)

	// 管理员不受属主限制
	_, err = svc.ListModuleLearners(learnerClaims(admin), mod.ID)
	assert.NoError(t, err)
}

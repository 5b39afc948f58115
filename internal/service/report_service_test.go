package service

import (
	"elearn_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformReport(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewReportService(repos.user, repos.module, repos.enrollment, repos.attempt)

	seedUser(t, db, "boss", model.Admin)
	lecturer := seedUser(t, db, "lect", model.Lecturer)
	s1 := seedUser(t, db, "stud1", model.Learner)
	s2 := seedUser(t, db, "stud2", model.Learner)

	published := seedModule(t, db, lecturer.ID, true)
	seedModule(t, db, lecturer.ID, false)

	quiz := seedQuizContent(t, db, published.ID, twoQuestionQuiz())
	e1 := seedEnrollment(t, db, s1.ID, published.ID)
	seedEnrollment(t, db, s2.ID, published.ID)
	require.NoError(t, repos.enrollment.MarkCompleted(e1))

	quizSvc := NewQuizService(repos.content, repos.enrollment, repos.attempt, repos.progress, db)
	_, err := quizSvc.SubmitAttempt(s1.ID, quiz.ID, []int{1, 2}) // 100
	require.NoError(t, err)
	_, err = quizSvc.SubmitAttempt(s2.ID, quiz.ID, []int{1, 0}) // 50
	require.NoError(t, err)

	report, err := svc.PlatformReport()
	require.NoError(t, err)

	assert.Equal(t, int64(4), report.TotalUsers)
	assert.Equal(t, int64(2), report.Learners)
	assert.Equal(t, int64(1), report.Lecturers)
	assert.Equal(t, int64(1), report.Admins)
	assert.Equal(t, int64(2), report.TotalModules)
	assert.Equal(t, int64(1), report.PublishedModules)
	assert.Equal(t, int64(2), report.TotalEnrollments)
	assert.Equal(t, int64(1), report.CompletedEnrollments)
	assert.Equal(t, 50.0, report.CompletionRate)
	assert.Equal(t, int64(2), report.TotalQuizAttempts)
	assert.Equal(t, 75.0, report.AverageQuizScore)
}

func TestPlatformReportEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewReportService(repos.user, repos.module, repos.enrollment, repos.attempt)

	report, err := svc.PlatformReport()
	require.NoError(t, err)
	assert.Zero(t, report.TotalUsers)
	assert.Zero(t, report.CompletionRate)
	assert.Zero(t, report.AverageQuizScore)
}

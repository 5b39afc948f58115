package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuizService(db *gorm.DB) (*QuizService, *testRepos) {
	repos := newTestRepos(db)
	return NewQuizService(repos.content, repos.enrollment, repos.attempt, repos.progress, db), repos
}

func TestSubmitAttemptAllCorrect(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuizService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	quiz := seedQuizContent(t, db, mod.ID, twoQuestionQuiz())
	seedEnrollment(t, db, learner.ID, mod.ID)

	result, err := svc.SubmitAttempt(learner.ID, quiz.ID, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, 2, result.TotalQuestions)
}

func TestSubmitAttemptPartialScoreRounded(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuizService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	def := model.QuizDefinition{
		{QuestionText: "q1", Options: []string{"a", "b"}, CorrectAnswerIndex: 0},
		{QuestionText: "q2", Options: []string{"a", "b"}, CorrectAnswerIndex: 0},
		{QuestionText: "q3", Options: []string{"a", "b"}, CorrectAnswerIndex: 0},
	}
	quiz := seedQuizContent(t, db, mod.ID, def)
	seedEnrollment(t, db, learner.ID, mod.ID)

	// 3题对1题 = 33.33
	result, err := svc.SubmitAttempt(learner.ID, quiz.ID, []int{0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 33.33, result.Score)
	assert.Equal(t, 1, result.CorrectAnswers)
}

func TestSubmitAttemptShortAnswerArray(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuizService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	quiz := seedQuizContent(t, db, mod.ID, twoQuestionQuiz())
	seedEnrollment(t, db, learner.ID, mod.ID)

	// 缺答的题按答错计，不报错
	result, err := svc.SubmitAttempt(learner.ID, quiz.ID, []int{1})
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Score)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 2, result.TotalQuestions)
}

func TestSubmitAttemptEmptyAnswers(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuizService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	quiz := seedQuizContent(t, db, mod.ID, twoQuestionQuiz())
	seedEnrollment(t, db, learner.ID, mod.ID)

	result, err := svc.SubmitAttempt(learner.ID, quiz.ID, []int{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
}

func TestSubmitAttemptOutOfRangeAnswersCountAsWrong(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuizService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	quiz := seedQuizContent(t, db, mod.ID, twoQuestionQuiz())
	seedEnrollment(t, db, learner.ID, mod.ID)

	result, err := svc.SubmitAttempt(learner.ID, quiz.ID, []int{99, -3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
}

func TestSubmitAttemptRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuizService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	quiz := seedQuizContent(t, db, mod.ID, twoQuestionQuiz())

	_, err := svc.SubmitAttempt(learner.ID, quiz.ID, []int{1, 2})
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestSubmitAttemptRejectsNonQuizContent(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuizService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	notes := seedNotesContent(t, db, mod.ID, "第一章")
	seedEnrollment(t, db, learner.ID, mod.ID)

	_, err := svc.SubmitAttempt(learner.ID, notes.ID, []int{0})
	assert.ErrorIs(t, err, util.ErrNotAQuiz)
}

func TestSubmitAttemptMissingContent(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuizService(db)

	learner := seedUser(t, db, "stud", model.Learner)

	_, err := svc.SubmitAttempt(learner.ID, 9999, []int{0})
	assert.ErrorIs(t, err, util.ErrContentNotFound)
}

func TestSubmitAttemptAppendsHistoryAndSingleProgressRow(t *testing.T) {
	db := newTestDB(t)
	svc, repos := newQuizService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	quiz := seedQuizContent(t, db, mod.ID, twoQuestionQuiz())
	seedEnrollment(t, db, learner.ID, mod.ID)

	_, err := svc.SubmitAttempt(learner.ID, quiz.ID, []int{1, 2})
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(learner.ID, quiz.ID, []int{0, 0})
	require.NoError(t, err)

	// 历史只增不改
	attempts, err := svc.ListAttempts(learner.ID, quiz.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	// 进度收敛为一行
	var progressRows int64
	require.NoError(t, db.Model(&model.UserContentProgress{}).
		Where("learner_id = ? AND content_id = ?", learner.ID, quiz.ID).
		Count(&progressRows).Error)
	assert.Equal(t, int64(1), progressRows)

	rec, err := repos.progress.Find(learner.ID, quiz.ID)
	require.NoError(t, err)
	assert.True(t, rec.Completed)
}

func TestListAttemptsPreservesSubmittedAnswers(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuizService(db)

	lecturer := seedUser(t, db, "lect", model.Lecturer)
	learner := seedUser(t, db, "stud", model.Learner)
	mod := seedModule(t, db, lecturer.ID, true)
	quiz := seedQuizContent(t, db, mod.ID, twoQuestionQuiz())
	seedEnrollment(t, db, learner.ID, mod.ID)

	_, err := svc.SubmitAttempt(learner.ID, quiz.ID, []int{1, 0})
	require.NoError(t, err)

	attempts, err := svc.ListAttempts(learner.ID, quiz.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, []int{1, 0}, attempts[0].SubmittedAnswers)
	assert.Equal(t, 50.0, attempts[0].Score)
}

func TestValidateDefinitionRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newQuizService(db)

	_, err := svc.ValidateDefinition([]byte(`[]`))
	require.Error(t, err)
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
}

func TestGradeSkipsMalformedStoredQuestions(t *testing.T) {
	def := model.QuizDefinition{
		{QuestionText: "ok", Options: []string{"a", "b"}, CorrectAnswerIndex: 1},
		{QuestionText: "", Options: nil, CorrectAnswerIndex: 9},
	}
	// 坏题永远判错，即使提交的下标恰好等于存储值
	assert.Equal(t, 1, grade(def, []int{1, 9}))
}

package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// QuizService 负责测验定义校验、判分、提交与历史查询。
type QuizService struct {
	ContentRepo    *repository.ContentRepository
	EnrollmentRepo *repository.EnrollmentRepository
	AttemptRepo    *repository.QuizAttemptRepository
	ProgressRepo   *repository.ProgressRepository
	DB             *gorm.DB
}

func NewQuizService(
	contentRepo *repository.ContentRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	attemptRepo *repository.QuizAttemptRepository,
	progressRepo *repository.ProgressRepository,
	db *gorm.DB,
) *QuizService {
	return &QuizService{
		ContentRepo:    contentRepo,
		EnrollmentRepo: enrollmentRepo,
		AttemptRepo:    attemptRepo,
		ProgressRepo:   progressRepo,
		DB:             db,
	}
}

type QuizSubmissionResult struct {
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
}

type QuizAttemptView struct {
	ID               uint      `json:"id"`
	Score            float64   `json:"score"`
	AttemptDate      time.Time `json:"attempt_date"`
	SubmittedAnswers []int     `json:"submitted_answers"`
}

// ValidateDefinition 解析并校验入库前的测验定义，失败返回 400 级错误。
func (s *QuizService) ValidateDefinition(raw []byte) (model.QuizDefinition, error) {
	def, err := model.ParseQuizDefinition(raw)
	if err != nil {
		return nil, util.ValidationError(err.Error())
	}
	return def, nil
}

// grade 逐题比对。缺答案、下标越界或存储里的坏题一律按答错处理，判分本身不报错。
func grade(def model.QuizDefinition, answers []int) int {
	correct := 0
	for i, q := range def {
		if !q.Wellformed() {
			continue
		}
		if i >= len(answers) {
			continue
		}
		if answers[i] == q.CorrectAnswerIndex {
			correct++
		}
	}
	return correct
}

// SubmitAttempt 读定义、判分，然后在同一个事务里追加判分记录并把
// 该内容项的进度置为完成。两个写入要么都提交要么都回滚。
func (s *QuizService) SubmitAttempt(learnerID, contentID uint, answers []int) (*QuizSubmissionResult, error) {
	content, err := s.ContentRepo.FindByID(contentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}

	if content.ContentType != model.Quizzes {
		return nil, util.ErrNotAQuiz
	}

	enrolled, err := s.EnrollmentRepo.Exists(learnerID, content.ModuleID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	var def model.QuizDefinition
	if err := json.Unmarshal(content.QuizData, &def); err != nil {
		return nil, util.DataIntegrityError("stored quiz definition is corrupted")
	}
	// 定义期校验应已挡住空题库，走到这说明数据被绕过写入
	if len(def) == 0 {
		return nil, util.ErrQuizNoQuestions
	}

	correct := grade(def, answers)
	score := util.Round2(float64(correct) / float64(len(def)) * 100)

	rawAnswers, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	attempt := &model.UserQuizAttempt{
		LearnerID:        learnerID,
		ContentID:        contentID,
		Score:            score,
		SubmittedAnswers: rawAnswers,
		AttemptDate:      time.Now(),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.AttemptRepo.Create(tx, attempt); err != nil {
			return err
		}
		return s.ProgressRepo.Upsert(tx, learnerID, contentID)
	})
	if err != nil {
		return nil, err
	}

	return &QuizSubmissionResult{
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(def),
	}, nil
}

// ListAttempts 返回学员在某个测验上的全部判分历史，最新的在前。
func (s *QuizService) ListAttempts(learnerID, contentID uint) ([]QuizAttemptView, error) {
	content, err := s.ContentRepo.FindByID(contentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	if content.ContentType != model.Quizzes {
		return nil, util.ErrNotAQuiz
	}

	attempts, err := s.AttemptRepo.ListByLearnerAndContent(learnerID, contentID)
	if err != nil {
		return nil, err
	}

	views := make([]QuizAttemptView, len(attempts))
	for i, a := range attempts {
		var answers []int
		if err := json.Unmarshal(a.SubmittedAnswers, &answers); err != nil {
			answers = nil
		}
		views[i] = QuizAttemptView{
			ID:               a.ID,
			Score:            a.Score,
			AttemptDate:      a.AttemptDate,
			SubmittedAnswers: answers,
		}
	}
	return views, nil
}

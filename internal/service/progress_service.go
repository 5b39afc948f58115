package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// ProgressService 内容完成打点与模块进度聚合。
type ProgressService struct {
	ModuleRepo     *repository.ModuleRepository
	ContentRepo    *repository.ContentRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
}

func NewProgressService(
	moduleRepo *repository.ModuleRepository,
	contentRepo *repository.ContentRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
) *ProgressService {
	return &ProgressService{
		ModuleRepo:     moduleRepo,
		ContentRepo:    contentRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
	}
}

type ModuleProgress struct {
	CompletedCount     int     `json:"completedCount"`
	TotalCount         int     `json:"totalCount"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

// ContentView 内容项加上当前学员的完成标记。学员视角下测验题不带正确答案。
type ContentView struct {
	model.Content
	UserCompletedContent bool `json:"user_completed_content"`
}

// MarkContentComplete 学员对某内容项打完成标记。重复提交只刷新时间戳。
func (s *ProgressService) MarkContentComplete(learnerID, contentID uint) error {
	content, err := s.ContentRepo.FindByID(contentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrContentNotFound
	}
	if err != nil {
		return err
	}

	enrolled, err := s.EnrollmentRepo.Exists(learnerID, content.ModuleID)
	if err != nil {
		return err
	}
	if !enrolled {
		return util.ErrNotEnrolled
	}

	return s.ProgressRepo.Upsert(s.ProgressRepo.DB, learnerID, contentID)
}

// GetModuleProgress 每次读时重算：完成数/总数。空模块按 0% 处理，不报错。
func (s *ProgressService) GetModuleProgress(learnerID, moduleID uint) (*ModuleProgress, error) {
	if _, err := s.ModuleRepo.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	contents, err := s.ContentRepo.FindByModule(moduleID)
	if err != nil {
		return nil, err
	}

	contentIDs := make([]uint, len(contents))
	for i, c := range contents {
		contentIDs[i] = c.ID
	}

	completed, err := s.ProgressRepo.CountCompleted(learnerID, contentIDs)
	if err != nil {
		return nil, err
	}

	progress := &ModuleProgress{
		CompletedCount: int(completed),
		TotalCount:     len(contents),
	}
	if progress.TotalCount > 0 {
		progress.ProgressPercentage = util.Round2(float64(progress.CompletedCount) / float64(progress.TotalCount) * 100)
	}
	return progress, nil
}

// MarkEnrollmentComplete 学员主动结课。服务端不要求内容全部完成，
// 前端可按 100% 进度再放开入口。
func (s *ProgressService) MarkEnrollmentComplete(learnerID, enrollmentID uint) error {
	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrEnrollmentNotFound
	}
	if err != nil {
		return err
	}

	if enrollment.LearnerID != learnerID {
		return util.AuthorizationError("enrollment does not belong to this user")
	}

	return s.EnrollmentRepo.MarkCompleted(enrollment)
}

// GetModuleContent 按角色取模块内容，每项带 user_completed_content 标记。
// 讲师只能看自己的模块；学员要求已选课或模块已发布。
func (s *ProgressService) GetModuleContent(claims *util.Claims, moduleID uint) ([]ContentView, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}

	switch claims.Role {
	case model.Admin:
	case model.Lecturer:
		if module.LecturerID != claims.UserID {
			return nil, util.ErrNotModuleOwner
		}
	default:
		enrolled, err := s.EnrollmentRepo.Exists(claims.UserID, moduleID)
		if err != nil {
			return nil, err
		}
		if !enrolled && !module.Published {
			return nil, util.ErrNotEnrolled
		}
	}

	contents, err := s.ContentRepo.FindByModule(moduleID)
	if err != nil {
		return nil, err
	}

	contentIDs := make([]uint, len(contents))
	for i, c := range contents {
		contentIDs[i] = c.ID
	}
	statusMap, err := s.ProgressRepo.CompletionMap(claims.UserID, contentIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ContentView, len(contents))
	for i, c := range contents {
		if claims.Role == model.Learner && c.ContentType == model.Quizzes {
			c.QuizData = redactQuizAnswers(c.QuizData)
		}
		views[i] = ContentView{
			Content:              c,
			UserCompletedContent: statusMap[c.ID],
		}
	}
	return views, nil
}

// redactQuizAnswers 去掉正确答案下标，学员拿到的题目只有题干和选项。
func redactQuizAnswers(raw []byte) []byte {
	var def model.QuizDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil
	}

	type learnerQuestion struct {
		QuestionText string   `json:"question_text"`
		Options      []string `json:"options"`
	}
	redacted := make([]learnerQuestion, len(def))
	for i, q := range def {
		redacted[i] = learnerQuestion{QuestionText: q.QuestionText, Options: q.Options}
	}

	out, err := json.Marshal(redacted)
	if err != nil {
		return nil
	}
	return out
}

package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// EnrollmentService 选课与讲师侧学员名单。
type EnrollmentService struct {
	ModuleRepo     *repository.ModuleRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Progress       *ProgressService
}

func NewEnrollmentService(
	moduleRepo *repository.ModuleRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progress *ProgressService,
) *EnrollmentService {
	return &EnrollmentService{
		ModuleRepo:     moduleRepo,
		EnrollmentRepo: enrollmentRepo,
		Progress:       progress,
	}
}

// Enroll 报名一个模块。模块必须存在、已发布且免费；
// 重复报名靠唯一索引兜底，并发下也只会落一行。
func (s *EnrollmentService) Enroll(learnerID, moduleID uint) (*model.Enrollment, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}

	if !module.Published {
		return nil, util.ErrModuleUnpublished
	}
	// 付费课程暂不支持：没有接入任何支付渠道
	if module.Price > 0 {
		return nil, util.ErrPaidModule
	}

	exists, err := s.EnrollmentRepo.Exists(learnerID, moduleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrAlreadyEnrolled
	}

	enrollment := &model.Enrollment{
		LearnerID:  learnerID,
		ModuleID:   moduleID,
		EnrolledAt: time.Now(),
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

type LearnerEnrollmentView struct {
	model.Enrollment
	Progress *ModuleProgress `json:"progress"`
}

// ListForLearner 学员自己的选课列表，带每个模块的实时进度。
func (s *EnrollmentService) ListForLearner(learnerID uint) ([]LearnerEnrollmentView, error) {
	enrollments, err := s.EnrollmentRepo.ListByLearner(learnerID)
	if err != nil {
		return nil, err
	}

	views := make([]LearnerEnrollmentView, len(enrollments))
	for i, e := range enrollments {
		progress, err := s.Progress.GetModuleProgress(learnerID, e.ModuleID)
		if err != nil {
			return nil, err
		}
		views[i] = LearnerEnrollmentView{Enrollment: e, Progress: progress}
	}
	return views, nil
}

type EnrolledLearnerView struct {
	LearnerID   uint            `json:"learnerId"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	EnrolledAt  time.Time       `json:"enrolledAt"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Progress    *ModuleProgress `json:"progress"`
}

// ListModuleLearners 讲师查看自己模块的学员名单与进度，管理员不受属主限制。
func (s *EnrollmentService) ListModuleLearners(claims *util.Claims, moduleID uint) ([]EnrolledLearnerView, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}

	if claims.Role != model.Admin && module.LecturerID != claims.UserID {
		return nil, util.ErrNotModuleOwner
	}

	enrollments, err := s.EnrollmentRepo.ListByModule(moduleID)
	if err != nil {
		return nil, err
	}

	views := make([]EnrolledLearnerView, 0, len(enrollments))
	for _, e := range enrollments {
		view := EnrolledLearnerView{
			LearnerID:   e.LearnerID,
			EnrolledAt:  e.EnrolledAt,
			Completed:   e.Completed,
			CompletedAt: e.CompletedAt,
		}
		if e.Learner != nil {
			view.Name = e.Learner.Name
			view.Email = e.Learner.Email
		}
		progress, err := s.Progress.GetModuleProgress(e.LearnerID, moduleID)
		if err != nil {
			return nil, err
		}
		view.Progress = progress
		views = append(views, view)
	}
	return views, nil
}

package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
)

// ReportService 管理员的平台汇总报表，每次请求实时统计。
type ReportService struct {
	UserRepo       *repository.UserRepository
	ModuleRepo     *repository.ModuleRepository
	EnrollmentRepo *repository.EnrollmentRepository
	AttemptRepo    *repository.QuizAttemptRepository
}

func NewReportService(
	userRepo *repository.UserRepository,
	moduleRepo *repository.ModuleRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	attemptRepo *repository.QuizAttemptRepository,
) *ReportService {
	return &ReportService{
		UserRepo:       userRepo,
		ModuleRepo:     moduleRepo,
		EnrollmentRepo: enrollmentRepo,
		AttemptRepo:    attemptRepo,
	}
}

type PlatformReport struct {
	TotalUsers           int64   `json:"totalUsers"`
	Learners             int64   `json:"learners"`
	Lecturers            int64   `json:"lecturers"`
	Admins               int64   `json:"admins"`
	TotalModules         int64   `json:"totalModules"`
	PublishedModules     int64   `json:"publishedModules"`
	TotalEnrollments     int64   `json:"totalEnrollments"`
	CompletedEnrollments int64   `json:"completedEnrollments"`
	CompletionRate       float64 `json:"completionRate"`
	TotalQuizAttempts    int64   `json:"totalQuizAttempts"`
	AverageQuizScore     float64 `json:"averageQuizScore"`
}

func (s *ReportService) PlatformReport() (*PlatformReport, error) {
	report := &PlatformReport{}

	byRole, err := s.UserRepo.CountByRole()
	if err != nil {
		return nil, err
	}
	report.Learners = byRole[model.Learner]
	report.Lecturers = byRole[model.Lecturer]
	report.Admins = byRole[model.Admin]
	report.TotalUsers = report.Learners + report.Lecturers + report.Admins

	if report.TotalModules, err = s.ModuleRepo.Count(); err != nil {
		return nil, err
	}
	if report.PublishedModules, err = s.ModuleRepo.CountPublished(); err != nil {
		return nil, err
	}

	if report.TotalEnrollments, err = s.EnrollmentRepo.Count(); err != nil {
		return nil, err
	}
	if report.CompletedEnrollments, err = s.EnrollmentRepo.CountCompleted(); err != nil {
		return nil, err
	}
	if report.TotalEnrollments > 0 {
		report.CompletionRate = util.Round2(float64(report.CompletedEnrollments) / float64(report.TotalEnrollments) * 100)
	}

	if report.TotalQuizAttempts, err = s.AttemptRepo.Count(); err != nil {
		return nil, err
	}
	avg, err := s.AttemptRepo.AverageScore()
	if err != nil {
		return nil, err
	}
	report.AverageQuizScore = util.Round2(avg)

	return report, nil
}

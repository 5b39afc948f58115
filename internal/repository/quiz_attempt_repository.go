package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

// Create 追加一条判分记录。db 传入事务句柄时随事务一起提交或回滚。
func (r *QuizAttemptRepository) Create(db *gorm.DB, a *model.UserQuizAttempt) error {
	return db.Create(a).Error
}

func (r *QuizAttemptRepository) ListByLearnerAndContent(learnerID, contentID uint) ([]model.UserQuizAttempt, error) {
	var attempts []model.UserQuizAttempt
	err := r.DB.Where("learner_id = ? AND content_id = ?", learnerID, contentID).
		Order("attempt_date DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *QuizAttemptRepository) Count() (int64, error) {
	var total int64
	err := r.DB.Model(&model.UserQuizAttempt{}).Count(&total).Error
	return total, err
}

func (r *QuizAttemptRepository) AverageScore() (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.UserQuizAttempt{}).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

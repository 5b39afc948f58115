package repository

import (
	"elearn_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(e *model.Enrollment) error {
	return r.DB.Create(e).Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) FindByPair(learnerID, moduleID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("learner_id = ? AND module_id = ?", learnerID, moduleID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) Exists(learnerID, moduleID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("learner_id = ? AND module_id = ?", learnerID, moduleID).
		Count(&count).Error
	return count > 0, err
}

// MarkCompleted 只翻转完成标志并盖完成时间戳，其余字段不动。
func (r *EnrollmentRepository) MarkCompleted(e *model.Enrollment) error {
	now := time.Now()
	return r.DB.Model(e).Updates(map[string]interface{}{
		"completed":    true,
		"completed_at": now,
	}).Error
}

func (r *EnrollmentRepository) ListByModule(moduleID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Learner").
		Where("module_id = ?", moduleID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListByLearner(learnerID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("learner_id = ?", learnerID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) Count() (int64, error) {
	var total int64
	err := r.DB.Model(&model.Enrollment{}).Count(&total).Error
	return total, err
}

func (r *EnrollmentRepository) CountCompleted() (int64, error) {
	var total int64
	err := r.DB.Model(&model.Enrollment{}).Where("completed = ?", true).Count(&total).Error
	return total, err
}

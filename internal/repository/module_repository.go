package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(m *model.Module) error {
	return r.DB.Create(m).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.Module, error) {
	var m model.Module
	err := r.DB.Preload("Lecturer").First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ModuleRepository) Save(m *model.Module) error {
	return r.DB.Save(m).Error
}

func (r *ModuleRepository) ListPublished(page, limit int, category string) ([]model.Module, int64, error) {
	var modules []model.Module
	var total int64

	query := r.DB.Model(&model.Module{}).Where("published = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&modules).Error
	return modules, total, err
}

func (r *ModuleRepository) ListByLecturer(lecturerID uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.Where("lecturer_id = ?", lecturerID).
		Order("created_at DESC").
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) List(page, limit int) ([]model.Module, int64, error) {
	var modules []model.Module
	var total int64

	if err := r.DB.Model(&model.Module{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Preload("Lecturer").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&modules).Error
	return modules, total, err
}

// Delete 删除模块并级联其内容项、选课、进度与测验历史。
func (r *ModuleRepository) Delete(moduleID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var contentIDs []uint
		if err := tx.Model(&model.Content{}).Where("module_id = ?", moduleID).
			Pluck("id", &contentIDs).Error; err != nil {
			return err
		}

		if len(contentIDs) > 0 {
			if err := tx.Unscoped().Where("content_id IN ?", contentIDs).
				Delete(&model.UserContentProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("content_id IN ?", contentIDs).
				Delete(&model.UserQuizAttempt{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("module_id = ?", moduleID).
				Delete(&model.Content{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Unscoped().Where("module_id = ?", moduleID).
			Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Module{}, moduleID).Error
	})
}

func (r *ModuleRepository) Count() (int64, error) {
	var total int64
	err := r.DB.Model(&model.Module{}).Count(&total).Error
	return total, err
}

func (r *ModuleRepository) CountPublished() (int64, error) {
	var total int64
	err := r.DB.Model(&model.Module{}).Where("published = ?", true).Count(&total).Error
	return total, err
}

package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) Create(c *model.Content) error {
	return r.DB.Create(c).Error
}

func (r *ContentRepository) FindByID(id uint) (*model.Content, error) {
	var c model.Content
	err := r.DB.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContentRepository) FindByModule(moduleID uint) ([]model.Content, error) {
	var contents []model.Content
	err := r.DB.Where("module_id = ?", moduleID).
		Order("created_at ASC").
		Find(&contents).Error
	return contents, err
}

func (r *ContentRepository) CountByModule(moduleID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.Content{}).Where("module_id = ?", moduleID).Count(&total).Error
	return total, err
}

// Delete 删除内容项并级联该项的进度记录和测验历史。
func (r *ContentRepository) Delete(contentID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("content_id = ?", contentID).
			Delete(&model.UserContentProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("content_id = ?", contentID).
			Delete(&model.UserQuizAttempt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Content{}, contentID).Error
	})
}

package repository

import (
	"elearn_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert 标记 (learner, content) 已完成。依赖 idx_learner_content 唯一索引，
// 已存在时只刷新时间戳；并发重复写入在存储层收敛为一行。
// db 传入事务句柄时随事务一起提交或回滚。
func (r *ProgressRepository) Upsert(db *gorm.DB, learnerID, contentID uint) error {
	now := time.Now()
	rec := &model.UserContentProgress{
		LearnerID:   learnerID,
		ContentID:   contentID,
		Completed:   true,
		CompletedAt: &now,
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "learner_id"}, {Name: "content_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":    true,
			"completed_at": now,
			"updated_at":   now,
		}),
	}).Create(rec).Error
}

func (r *ProgressRepository) CountCompleted(learnerID uint, contentIDs []uint) (int64, error) {
	if len(contentIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.UserContentProgress{}).
		Where("learner_id = ? AND content_id IN ? AND completed = ?", learnerID, contentIDs, true).
		Count(&count).Error
	return count, err
}

// CompletionMap 返回学员对一组内容项的完成状态
func (r *ProgressRepository) CompletionMap(learnerID uint, contentIDs []uint) (map[uint]bool, error) {
	statusMap := make(map[uint]bool)
	if len(contentIDs) == 0 {
		return statusMap, nil
	}

	var records []model.UserContentProgress
	err := r.DB.Where("learner_id = ? AND content_id IN ?", learnerID, contentIDs).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		statusMap[rec.ContentID] = rec.Completed
	}
	return statusMap, nil
}

func (r *ProgressRepository) Find(learnerID, contentID uint) (*model.UserContentProgress, error) {
	var rec model.UserContentProgress
	err := r.DB.Where("learner_id = ? AND content_id = ?", learnerID, contentID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

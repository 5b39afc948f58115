package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModuleService 教学模块的增删改查。讲师只能操作自己名下的模块，管理员全量可见。
type ModuleService struct {
	ModuleRepo  *repository.ModuleRepository
	ContentRepo *repository.ContentRepository
	Storage     *StorageService
}

func NewModuleService(
	moduleRepo *repository.ModuleRepository,
	contentRepo *repository.ContentRepository,
	storage *StorageService,
) *ModuleService {
	return &ModuleService{
		ModuleRepo:  moduleRepo,
		ContentRepo: contentRepo,
		Storage:     storage,
	}
}

type CreateModuleRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Difficulty    string  `json:"difficulty"`
	DurationHours int     `json:"durationHours"`
	Price         float64 `json:"price"`
	Published     bool    `json:"published"`
}

type UpdateModuleRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	Difficulty    *string  `json:"difficulty"`
	DurationHours *int     `json:"durationHours"`
	Price         *float64 `json:"price"`
	Published     *bool    `json:"published"`
}

func (s *ModuleService) CreateModule(claims *util.Claims, req CreateModuleRequest) (*model.Module, error) {
	if req.Price < 0 {
		return nil, util.ValidationError("price must not be negative")
	}

	module := &model.Module{
		Name:          req.Name,
		Description:   req.Description,
		LecturerID:    claims.UserID,
		Category:      req.Category,
		Difficulty:    req.Difficulty,
		DurationHours: req.DurationHours,
		Price:         req.Price,
		Published:     req.Published,
	}
	if err := s.ModuleRepo.Create(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ModuleService) requireOwned(claims *util.Claims, moduleID uint) (*model.Module, error) {
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
	return module, nil
}

func (s *ModuleService) UpdateModule(claims *util.Claims, moduleID uint, req UpdateModuleRequest) (*model.Module, error) {
	module, err := s.requireOwned(claims, moduleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		module.Name = *req.Name
	}
	if req.Description != nil {
		module.Description = *req.Description
	}
	if req.Category != nil {
		module.Category = *req.Category
	}
	if req.Difficulty != nil {
		module.Difficulty = *req.Difficulty
	}
	if req.DurationHours != nil {
		module.DurationHours = *req.DurationHours
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, util.ValidationError("price must not be negative")
		}
		module.Price = *req.Price
	}
	if req.Published != nil {
		module.Published = *req.Published
	}

	if err := s.ModuleRepo.Save(module); err != nil {
		return nil, err
	}
	return module, nil
}

// DeleteModule 级联删除模块。行数据在一个事务里清掉，文件在事务提交后清理，
// 清理失败只记日志。
func (s *ModuleService) DeleteModule(ctx context.Context, claims *util.Claims, moduleID uint) error {
	if _, err := s.requireOwned(claims, moduleID); err != nil {
		return err
	}

	contents, err := s.ContentRepo.FindByModule(moduleID)
	if err != nil {
		return err
	}

	if err := s.ModuleRepo.Delete(moduleID); err != nil {
		return err
	}

	for _, c := range contents {
		if err := s.Storage.RemoveByURL(ctx, c.FileURL); err != nil {
			logger.Log.Error("failed to remove content file", zap.String("url", c.FileURL), zap.Error(err))
		}
		if err := s.Storage.RemoveByURL(ctx, c.Thumbnail); err != nil {
			logger.Log.Error("failed to remove content thumbnail", zap.String("url", c.Thumbnail), zap.Error(err))
		}
	}
	return nil
}

// GetModule 未发布的模块只有属主讲师和管理员可见。
func (s *ModuleService) GetModule(claims *util.Claims, moduleID uint) (*model.Module, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}

	if !module.Published {
		if claims == nil || (claims.Role != model.Admin && module.LecturerID != claims.UserID) {
			return nil, util.ErrModuleNotFound
		}
	}
	return module, nil
}

func (s *ModuleService) ListPublished(page, limit int, category string) ([]model.Module, int64, error) {
	return s.ModuleRepo.ListPublished(page, limit, category)
}

func (s *ModuleService) ListMine(lecturerID uint) ([]model.Module, error) {
	return s.ModuleRepo.ListByLecturer(lecturerID)
}

func (s *ModuleService) ListAll(page, limit int) ([]model.Module, int64, error) {
	return s.ModuleRepo.List(page, limit)
}

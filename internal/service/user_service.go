package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 管理员的用户管理和用户本人的资料维护。
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(page, limit int, role model.UserRole) ([]model.User, int64, error) {
	if role != "" && role != model.Learner && role != model.Lecturer && role != model.Admin {
		return nil, 0, util.ValidationError("invalid role filter")
	}
	return s.UserRepo.List(page, limit, role)
}

type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, util.ValidationError("name must not be empty")
		}
		user.Name = *req.Name
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

type AdminUpdateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Disabled *bool   `json:"disabled"`
}

// AdminUpdateUser 管理员改名、改角色、启停账号。不允许把自己降级或禁用，
// 避免把最后一个管理员锁在门外。
func (s *UserService) AdminUpdateUser(operator *util.Claims, userID uint, req AdminUpdateUserRequest) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, util.ValidationError("name must not be empty")
		}
		user.Name = *req.Name
	}
	if req.Role != nil {
		role := model.UserRole(*req.Role)
		if role != model.Learner && role != model.Lecturer && role != model.Admin {
			return nil, util.ValidationError("invalid role")
		}
		if userID == operator.UserID && role != model.Admin {
			return nil, util.ValidationError("cannot change your own role")
		}
		user.Role = role
	}
	if req.Disabled != nil {
		if userID == operator.UserID && *req.Disabled {
			return nil, util.ValidationError("cannot disable your own account")
		}
		user.Disabled = *req.Disabled
	}

	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ResetPassword(userID uint, newPassword string) error {
	if len(newPassword) < 6 {
		return util.ValidationError("password must be at least 6 characters")
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Save(user)
}

func (s *UserService) DeleteUser(operator *util.Claims, userID uint) error {
	if userID == operator.UserID {
		return util.ValidationError("cannot delete your own account")
	}
	if _, err := s.GetUser(userID); err != nil {
		return err
	}
	return s.UserRepo.Delete(userID)
}

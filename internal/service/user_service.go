package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-backoffice/internal/model"
	"go-backoffice/internal/repository"
	"go-backoffice/pkg/logger"
)

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID, actor Actor) error
	UnlockUser(ctx context.Context, userID uuid.UUID, actor Actor) error
	UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, actor Actor) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	IdentificationNumber string `json:"identificationNumber" validate:"max=20"`
	UserName             string `json:"userName" validate:"required,min=3,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=6"`
	PhoneNumber          string `json:"phoneNumber" validate:"max=20"`
	RoleID               uint   `json:"roleId" validate:"required"`
	EmailConfirmed       bool   `json:"emailConfirmed"`
}

type UpdateUserRequest struct {
	IdentificationNumber string  `json:"identificationNumber" validate:"max=20"`
	UserName             string  `json:"userName" validate:"required,min=3,max=100"`
	Email                string  `json:"email" validate:"required,email"`
	Password             *string `json:"password,omitempty" validate:"omitempty,min=6"`
	PhoneNumber          string  `json:"phoneNumber" validate:"max=20"`
	RoleID               uint    `json:"roleId" validate:"required"`
	EmailConfirmed       *bool   `json:"emailConfirmed"`
	IsLocked             *bool   `json:"isLocked"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
	log           logger.Logger
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository, log logger.Logger) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
		log:           log,
	}
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, uuid.Nil, req.Email, req.UserName); err != nil {
		return nil, err
	}

	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, notFound(err, ErrRoleNotFound)
	}

	user := &model.User{
		IdentificationNumber: req.IdentificationNumber,
		UserName:             req.UserName,
		Email:                req.Email,
		PhoneNumber:          req.PhoneNumber,
		RoleID:               &role.ID,
		EmailConfirmed:       req.EmailConfirmed,
		// privileges follow the role on creation
		Privileges: role.Privileges,
	}
	user.CreatedBy = actor.auditID()
	user.UpdatedBy = actor.auditID()

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user created", "user_id", user.ID, "user_name", user.UserName, "by", actor.auditID())
	return s.userRepo.FindByID(ctx, user.ID)
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if err := s.checkUnique(ctx, userID, req.Email, req.UserName); err != nil {
		return nil, err
	}

	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, notFound(err, ErrRoleNotFound)
	}

	user.IdentificationNumber = req.IdentificationNumber
	user.UserName = req.UserName
	user.Email = req.Email
	user.PhoneNumber = req.PhoneNumber
	user.RoleID = &role.ID
	user.Role = nil
	if req.EmailConfirmed != nil {
		user.EmailConfirmed = *req.EmailConfirmed
	}
	if req.IsLocked != nil {
		user.IsLocked = *req.IsLocked
	}
	user.UpdatedBy = actor.auditID()

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	// Association replace keeps the join table in step with the role.
	privileges := role.Privileges
	user.Privileges = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePrivileges(ctx, userID, privileges); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(ctx, userID)
}

func (s *userService) checkUnique(ctx context.Context, self uuid.UUID, email, userName string) error {
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing.ID != self {
		return ErrEmailExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing, err := s.userRepo.FindByUserName(ctx, userName); err == nil && existing.ID != self {
		return ErrUserNameExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID, actor Actor) error {
	if userID == actor.ID {
		return fmt.Errorf("%w: you cannot delete your own account", ErrValidation)
	}
	if err := s.userRepo.Delete(ctx, userID, actor.auditID()); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	s.log.InfoContext(ctx, "user deleted", "user_id", userID, "by", actor.auditID())
	return nil
}

func (s *userService) UnlockUser(ctx context.Context, userID uuid.UUID, actor Actor) error {
	if err := s.userRepo.SetLocked(ctx, userID, false); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	s.log.InfoContext(ctx, "user unlocked", "user_id", userID, "by", actor.auditID())
	return nil
}

func (s *userService) UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, actor Actor) (*model.User, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	privileges, err := s.privilegeRepo.FindByCodes(ctx, privilegeCodes)
	if err != nil {
		return nil, fmt.Errorf("find privileges: %w", err)
	}
	if len(privileges) != len(privilegeCodes) {
		return nil, fmt.Errorf("%w: unknown privilege code", ErrValidation)
	}

	if err := s.userRepo.UpdatePrivileges(ctx, userID, privileges); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user privileges updated", "user_id", userID, "count", len(privileges), "by", actor.auditID())
	return s.userRepo.FindByID(ctx, userID)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	response := user.ToResponse()
	return &response, nil
}

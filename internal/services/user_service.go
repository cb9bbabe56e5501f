package services

import (
	"strings"

	"travel_backend/internal/auth"
	"travel_backend/internal/models"
	"travel_backend/internal/repositories"
	"travel_backend/internal/services/dto"
	"travel_backend/internal/validator"
	"travel_backend/pkg/apperrors"
)

// Profile views show minute precision; the admin listing shows dates
// only.
const (
	createdAtLayout     = "2006-01-02 15:04"
	listCreatedAtLayout = "2006-01-02"
)

// UserService is the account lifecycle orchestrator. Every request walks
// the same pipeline: authorize (admin ops only), validate fields in the
// order username, email, password, check uniqueness (email before
// username), then mutate through the store. Unexpected store failures are
// wrapped as internal errors; their causes never reach the caller.
type UserService interface {
	Register(req *dto.RegisterRequest) error
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	GetProfile(principal auth.Principal) (*dto.UserResponse, error)

	AdminCreate(principal auth.Principal, req *dto.AdminCreateUserRequest) (*dto.AdminCreateUserResponse, error)
	AdminCreateAdmin(principal auth.Principal, req *dto.RegisterRequest) error
	AdminList(principal auth.Principal) ([]dto.UserResponse, error)
	AdminUpdate(principal auth.Principal, id string, req *dto.AdminUpdateUserRequest) error
	AdminDelete(principal auth.Principal, id string) error
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

// Register creates a self-service account. The role is always "user";
// callers cannot choose it.
func (s *UserServiceImpl) Register(req *dto.RegisterRequest) error {
	_, err := s.createUser(req.Username, req.Email, req.Password, models.UserRoleUser)
	return err
}

// Login verifies credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *UserServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := validator.NormalizeEmail(req.Email)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		User:        buildUserResponse(user),
	}, nil
}

// GetProfile returns the account view of the acting principal.
func (s *UserServiceImpl) GetProfile(principal auth.Principal) (*dto.UserResponse, error) {
	if principal.IsAnonymous() {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}

	user, err := s.userRepo.FindByID(principal.ID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := buildUserResponse(user)
	return &resp, nil
}

// AdminCreate creates an account with a caller-chosen role. Any role
// value other than "admin" collapses to "user".
func (s *UserServiceImpl) AdminCreate(principal auth.Principal, req *dto.AdminCreateUserRequest) (*dto.AdminCreateUserResponse, error) {
	if !principal.CanManageAccounts() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	role := models.UserRoleUser
	if models.UserRole(req.Role) == models.UserRoleAdmin {
		role = models.UserRoleAdmin
	}

	user, err := s.createUser(req.Username, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	return &dto.AdminCreateUserResponse{ID: user.ID, Role: user.Role}, nil
}

// AdminCreateAdmin creates an account with the admin role.
func (s *UserServiceImpl) AdminCreateAdmin(principal auth.Principal, req *dto.RegisterRequest) error {
	if !principal.CanManageAccounts() {
		return apperrors.ErrInsufficientPermissions
	}

	_, err := s.createUser(req.Username, req.Email, req.Password, models.UserRoleAdmin)
	return err
}

// AdminList returns views of every account.
func (s *UserServiceImpl) AdminList(principal auth.Principal) ([]dto.UserResponse, error) {
	if !principal.CanManageAccounts() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		view := buildUserResponse(&users[i])
		view.CreatedAt = users[i].CreatedAt.Format(listCreatedAtLayout)
		views = append(views, view)
	}
	return views, nil
}

// AdminUpdate changes only the supplied fields. Touched fields pass the
// same credential rules as registration. Role values outside the enum are
// silently ignored rather than rejected.
func (s *UserServiceImpl) AdminUpdate(principal auth.Principal, id string, req *dto.AdminUpdateUserRequest) error {
	if !principal.CanManageAccounts() {
		return apperrors.ErrInsufficientPermissions
	}

	fields := make(map[string]interface{})

	if req.Username != nil {
		if vErr := validator.ValidateUsername(*req.Username); vErr != nil {
			return vErr
		}
		fields["username"] = *req.Username
	}

	if req.Email != nil {
		email := validator.NormalizeEmail(*req.Email)
		if vErr := validator.ValidateEmail(email); vErr != nil {
			return vErr
		}
		fields["email"] = email
	}

	if req.Role != nil && models.ValidRole(models.UserRole(*req.Role)) {
		fields["role"] = *req.Role
	}

	if err := s.userRepo.UpdateFields(id, fields); err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrUserNotFound):
			return apperrors.ErrNotFound(err)
		case apperrors.Is(err, repositories.ErrEmailTaken):
			return apperrors.ErrEmailTaken()
		case apperrors.Is(err, repositories.ErrUsernameTaken):
			return apperrors.ErrUsernameTaken()
		default:
			return apperrors.InternalError(err)
		}
	}
	return nil
}

// AdminDelete removes an account and, transactionally, its reset tokens.
func (s *UserServiceImpl) AdminDelete(principal auth.Principal, id string) error {
	if !principal.CanManageAccounts() {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.userRepo.Delete(id); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// createUser is the shared creation pipeline: ordered validation,
// uniqueness pre-check (email before username), hash, conditional insert.
// The pre-check gives friendly conflicts; the unique indexes win the race
// when two writers pass it simultaneously.
func (s *UserServiceImpl) createUser(username, rawEmail, password string, role models.UserRole) (*models.User, error) {
	username = strings.TrimSpace(username)
	email := validator.NormalizeEmail(rawEmail)

	if vErr := validator.ValidateUsername(username); vErr != nil {
		return nil, vErr
	}
	if vErr := validator.ValidateEmail(email); vErr != nil {
		return nil, vErr
	}
	if vErr := validator.ValidatePassword(password); vErr != nil {
		return nil, vErr
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, apperrors.ErrEmailTaken()
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, apperrors.ErrUsernameTaken()
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.userRepo.Create(user); err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrEmailTaken):
			return nil, apperrors.ErrEmailTaken()
		case apperrors.Is(err, repositories.ErrUsernameTaken):
			return nil, apperrors.ErrUsernameTaken()
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	return user, nil
}

func buildUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(createdAtLayout),
	}
}

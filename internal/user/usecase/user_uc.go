package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"github.com/ZeyadW/Apartment-Finder/internal/user/entity"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrInvalidRole        = errors.New("invalid role")
)

const tokenTTL = 7 * 24 * time.Hour

// Repository is the persistence surface the user flows need.
type Repository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	UpdateRole(ctx context.Context, id, role string) (*entity.User, error)
	ToggleActive(ctx context.Context, id string) (*entity.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type UserUsecase struct {
	repo      Repository
	jwtSecret string
	logger    *zap.Logger
}

func NewUserUsecase(repo Repository, jwtSecret string, logger *zap.Logger) *UserUsecase {
	return &UserUsecase{
		repo:      repo,
		jwtSecret: jwtSecret,
		logger:    logger.Named("UserUsecase"),
	}
}

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

// Register creates an account and returns it with a fresh token. Callers may
// request the agent role; admin accounts are only minted by an existing admin.
func (u *UserUsecase) Register(ctx context.Context, input RegisterInput) (*entity.User, string, error) {
	verr := domain.NewValidationError()
	if strings.TrimSpace(input.FirstName) == "" {
		verr.Add("firstName", "firstName is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		verr.Add("lastName", "lastName is required")
	}
	if !strings.Contains(input.Email, "@") {
		verr.Add("email", "a valid email is required")
	}
	if len(input.Password) < 6 {
		verr.Add("password", "password must be at least 6 characters")
	}
	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !entity.ValidRole(role) || role == entity.RoleAdmin {
		verr.Add("role", "role must be user or agent")
	}
	if verr.HasErrors() {
		return nil, "", verr
	}

	user, err := u.repo.Create(ctx, &entity.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     input.Email,
		Password:  input.Password,
		Phone:     input.Phone,
		Role:      role,
	})
	if err != nil {
		return nil, "", err
	}
	u.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", user.Role))

	token, err := u.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and stamps the login time. Unknown emails and
// wrong passwords produce the same error.
func (u *UserUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := u.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	if err := u.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		u.logger.Warn("failed to stamp last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	user.LastLogin = &now

	token, err := u.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *UserUsecase) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return u.repo.FindByID(ctx, id)
}

func (u *UserUsecase) ListUsers(ctx context.Context, principal domain.Principal) ([]*entity.User, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return u.repo.List(ctx)
}

func (u *UserUsecase) UpdateRole(ctx context.Context, principal domain.Principal, userID, role string) (*entity.User, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !entity.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	user, err := u.repo.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	u.logger.Info("user role changed", zap.String("user_id", userID), zap.String("role", role))
	return user, nil
}

func (u *UserUsecase) ToggleStatus(ctx context.Context, principal domain.Principal, userID string) (*entity.User, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	user, err := u.repo.ToggleActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.logger.Info("user status toggled",
		zap.String("user_id", userID), zap.Bool("is_active", user.IsActive))
	return user, nil
}

func (u *UserUsecase) issueToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

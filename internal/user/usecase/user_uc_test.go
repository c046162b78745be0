package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"github.com/ZeyadW/Apartment-Finder/internal/user/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// fakeUserRepo mirrors the store contract: it hashes passwords on create and
// rejects duplicate emails case-insensitively.
type fakeUserRepo struct {
	users []*entity.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, entity.ErrDuplicateEmail
		}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	stored := *user
	stored.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	stored.Email = strings.ToLower(user.Email)
	stored.Password = string(hashed)
	stored.IsActive = true
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = time.Now()
	f.users = append(f.users, &stored)
	return &stored, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id, role string) (*entity.User, error) {
	u, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	return u, nil
}

func (f *fakeUserRepo) ToggleActive(ctx context.Context, id string) (*entity.User, error) {
	u, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsActive = !u.IsActive
	return u, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	u, err := f.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.LastLogin = &at
	return nil
}

func newUserFixture() (*UserUsecase, *fakeUserRepo) {
	repo := &fakeUserRepo{}
	return NewUserUsecase(repo, testSecret, zap.NewNop()), repo
}

func registerInput() RegisterInput {
	return RegisterInput{
		FirstName: "Dina",
		LastName:  "Hassan",
		Email:     "dina@example.com",
		Password:  "secret123",
	}
}

func TestRegister_DefaultsToUserRole(t *testing.T) {
	uc, _ := newUserFixture()

	user, token, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "secret123", user.Password)
}

func TestRegister_TokenCarriesIdentityClaims(t *testing.T) {
	uc, _ := newUserFixture()

	user, token, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, "dina@example.com", claims["email"])
	assert.Equal(t, entity.RoleUser, claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp.Time, time.Minute)
}

func TestRegister_CannotSelfAssignAdmin(t *testing.T) {
	uc, _ := newUserFixture()

	in := registerInput()
	in.Role = entity.RoleAdmin
	_, _, err := uc.Register(context.Background(), in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "role")
}

func TestRegister_AgentRoleIsAllowed(t *testing.T) {
	uc, _ := newUserFixture()

	in := registerInput()
	in.Role = entity.RoleAgent
	user, _, err := uc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAgent, user.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc, _ := newUserFixture()

	_, _, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	in := registerInput()
	in.Email = "DINA@example.com"
	_, _, err = uc.Register(context.Background(), in)
	assert.ErrorIs(t, err, entity.ErrDuplicateEmail)
}

func TestRegister_ValidationCollectsAllFields(t *testing.T) {
	uc, _ := newUserFixture()

	_, _, err := uc.Register(context.Background(), RegisterInput{Password: "short"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "firstName")
	assert.Contains(t, verr.Fields, "lastName")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
}

func TestLogin_Succeeds(t *testing.T) {
	uc, repo := newUserFixture()
	_, _, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	user, token, err := uc.Login(context.Background(), "dina@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, user.LastLogin)
	assert.NotNil(t, repo.users[0].LastLogin)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	uc, _ := newUserFixture()
	_, _, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, _, badPassword := uc.Login(context.Background(), "dina@example.com", "wrong")
	_, _, unknownEmail := uc.Login(context.Background(), "nobody@example.com", "secret123")

	assert.ErrorIs(t, badPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
}

func TestLogin_DisabledAccountIsRejected(t *testing.T) {
	uc, repo := newUserFixture()
	registered, _, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = repo.ToggleActive(context.Background(), registered.ID)
	require.NoError(t, err)

	_, _, err = uc.Login(context.Background(), "dina@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAdminOperations_RequireAdmin(t *testing.T) {
	uc, _ := newUserFixture()
	registered, _, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	nonAdmin := domain.Principal{ID: "u-1", Role: domain.RoleAgent}
	admin := domain.Principal{ID: "a-1", Role: domain.RoleAdmin}

	_, err = uc.ListUsers(context.Background(), nonAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.UpdateRole(context.Background(), nonAdmin, registered.ID, entity.RoleAgent)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.ToggleStatus(context.Background(), nonAdmin, registered.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	users, err := uc.ListUsers(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	promoted, err := uc.UpdateRole(context.Background(), admin, registered.ID, entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, promoted.Role)

	_, err = uc.UpdateRole(context.Background(), admin, registered.ID, "landlord")
	assert.ErrorIs(t, err, ErrInvalidRole)

	disabled, err := uc.ToggleStatus(context.Background(), admin, registered.ID)
	require.NoError(t, err)
	assert.False(t, disabled.IsActive)
}

package userservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/pkg/token"
	"saborstock/internal/service/userservice"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

const secret = "segredo-de-teste-com-32-caracteres"

func newService(repo *MockUserRepository) *userservice.UserService {
	return userservice.NewService(repo, token.NewService(secret, time.Hour), logger.NewNop())
}

func TestRegister_BootstrapFirstAdmin(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	repo.On("Count", mock.Anything).Return(0, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "dona@doceria.com" && u.Role == domain.RoleAdmin &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("senha-forte")) == nil
	})).Return(domain.User{ID: "u1", Email: "dona@doceria.com", Role: domain.RoleAdmin}, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{Email: " Dona@Doceria.com ", Password: "senha-forte"}, false)

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	repo.AssertExpectations(t)
}

func TestRegister_ForbiddenWithoutAdminToken(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	repo.On("Count", mock.Anything).Return(1, nil)

	_, err := svc.Register(context.Background(), domain.UserRegistration{Email: "novo@doceria.com", Password: "senha-forte"}, false)

	assert.IsType(t, &apperror.ForbiddenError{}, err)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegister_AuthorizedSkipsCount(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	repo.On("Save", mock.Anything, mock.Anything).Return(domain.User{ID: "u2"}, nil)

	_, err := svc.Register(context.Background(), domain.UserRegistration{Email: "novo@doceria.com", Password: "senha-forte"}, true)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "Count", mock.Anything)
}

func TestRegister_Validation(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	_, err := svc.Register(context.Background(), domain.UserRegistration{Email: "não-é-email", Password: "senha-forte"}, true)
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.Register(context.Background(), domain.UserRegistration{Email: "a@b.com", Password: "curta"}, true)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestLogin(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("senha-forte"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("FindByEmail", mock.Anything, "dona@doceria.com").
		Return(domain.User{ID: "u1", Email: "dona@doceria.com", PasswordHash: string(hash), Role: domain.RoleAdmin}, nil)
	repo.On("FindByEmail", mock.Anything, "ninguem@doceria.com").
		Return(domain.User{}, apperror.NewNotFoundError("não encontrado"))

	tok, err := svc.Login(context.Background(), "DONA@doceria.com", "senha-forte")
	require.NoError(t, err)
	assert.True(t, svc.IsAdminToken(tok))

	_, err = svc.Login(context.Background(), "dona@doceria.com", "errada")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)

	_, err = svc.Login(context.Background(), "ninguem@doceria.com", "senha-forte")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)

	_, err = svc.Login(context.Background(), "", "")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)

	assert.False(t, svc.IsAdminToken("lixo"))
	assert.False(t, svc.IsAdminToken(""))
}

package userservice

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/pkg/token"
	"saborstock/internal/pkg/validation"
)

// UserRepository é o contrato de persistência esperado pelo serviço.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Count(ctx context.Context) (int, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token)
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// UserService cuida do cadastro e da autenticação dos administradores.
type UserService struct {
	UserRepo UserRepository
	TokenSvc TokenService
	logger   logger.Logger
	cost     int
}

// NewService cria uma nova instância do UserService.
func NewService(repo UserRepository, tokenSvc TokenService, logger logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   logger,
		cost:     bcrypt.DefaultCost,
	}
}

// Register cadastra um novo administrador.
//
// Sem um token de administrador (authorized=false) o cadastro só é aceito
// enquanto não existir nenhum administrador (bootstrap da loja).
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration, authorized bool) (domain.User, error) {
	registration.Email = normalizeEmail(registration.Email)
	if err := validation.Struct(registration); err != nil {
		return domain.User{}, err
	}

	if !authorized {
		n, err := s.UserRepo.Count(ctx)
		if err != nil {
			return domain.User{}, err
		}
		if n > 0 {
			return domain.User{}, apperror.NewForbiddenError("Apenas administradores podem cadastrar novos administradores.")
		}
		s.logger.Info("Cadastrando o primeiro administrador da loja.", map[string]interface{}{"email": registration.Email})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), s.cost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	return s.UserRepo.Save(ctx, domain.User{
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleAdmin,
	})
}

// Login autentica um administrador, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		// NotFound vira 401 para não revelar quais e-mails existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Tentativa de login com senha incorreta.", map[string]interface{}{"email": email})
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Login de administrador realizado.", map[string]interface{}{"user_id": user.ID})
	return tokenString, nil
}

// IsAdminToken informa se o token é válido e pertence a um administrador.
func (s *UserService) IsAdminToken(tokenString string) bool {
	if tokenString == "" {
		return false
	}
	claims, err := s.TokenSvc.ValidateToken(tokenString)
	return err == nil && claims.Role == string(domain.RoleAdmin)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package user

import (
	"context"
	"net/http"

	"saborstock/internal/api/response"
	"saborstock/internal/domain"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/pkg/middleware"
)

// UserService define o contrato para as operações de registro e login.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration, authorized bool) (domain.User, error)
	Login(ctx context.Context, email string, password string) (string, error)
	IsAdminToken(tokenString string) bool
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RegisterUserHandler lida com a requisição POST /v1/admin/register.
// @Summary Registra um novo administrador
// @Description Exige token de administrador, exceto quando ainda não existe nenhum administrador (primeiro acesso).
// @Tags admin
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Credenciais de registro (email e senha)"
// @Success 201 {object} domain.User "Administrador criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 403 {object} domain.ErrorResponse "Já existe administrador e o token não foi informado"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /admin/register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := response.Decode(w, r, &reg); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	tokenString, _ := middleware.BearerToken(r)
	newUser, err := h.Service.Register(r.Context(), reg, h.Service.IsAdminToken(tokenString))

	// PasswordHash não sai no JSON (tag `json:"-"`).
	response.Handle(w, r, h.Logger, newUser, err, http.StatusCreated)
}

// LoginUserHandler lida com a requisição POST /v1/admin/login.
// @Summary Autentica um administrador e retorna um JWT
// @Tags admin
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais (email e senha)"
// @Success 200 {object} domain.LoginResponse "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /admin/login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var loginReq LoginRequest
	if err := response.Decode(w, r, &loginReq); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	tokenString, err := h.Service.Login(r.Context(), loginReq.Email, loginReq.Password)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.Handle(w, r, h.Logger, domain.LoginResponse{Token: tokenString}, nil, http.StatusOK)
}

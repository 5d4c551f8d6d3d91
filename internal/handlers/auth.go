package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"entregas-api/internal/middleware"
	"entregas-api/internal/models"
	"entregas-api/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// @Summary Cadastrar usuário
// @Description Registra um novo usuário e retorna o token de acesso
// @Tags auth
// @Accept json
// @Produce json
// @Param usuario body models.UsuarioRegistro true "Dados do usuário"
// @Success 201 {object} models.RespostaAPI{data=models.AuthResponse}
// @Failure 400 {object} models.RespostaAPI
// @Failure 409 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.UsuarioRegistro
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Error("Erro ao fazer bind do JSON")
		responderErro(c, models.NewValidationError("Dados inválidos", err.Error()))
		return
	}

	usuario, err := h.authService.RegistrarUsuario(c.Request.Context(), &req)
	if err != nil {
		responderErro(c, err)
		return
	}

	token, _, err := middleware.GenerateJWT(usuario.ID, usuario.Email, usuario.Name)
	if err != nil {
		logrus.WithError(err).Error("Erro ao gerar token JWT")
		responderErro(c, models.NewInternalError("Erro ao gerar token de acesso"))
		return
	}

	c.JSON(http.StatusCreated, models.NovaRespostaSucesso(models.AuthResponse{
		User:        usuario.ToSimple(),
		AccessToken: token,
	}))
}

// @Summary Login
// @Description Autentica um usuário e retorna o token de acesso
// @Tags auth
// @Accept json
// @Produce json
// @Param credenciais body models.UsuarioLogin true "Credenciais"
// @Success 200 {object} models.RespostaAPI{data=models.AuthResponse}
// @Failure 400 {object} models.RespostaAPI
// @Failure 401 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req models.UsuarioLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Error("Erro ao fazer bind do JSON")
		responderErro(c, models.NewValidationError("Dados inválidos", err.Error()))
		return
	}

	usuario, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		responderErro(c, err)
		return
	}

	token, _, err := middleware.GenerateJWT(usuario.ID, usuario.Email, usuario.Name)
	if err != nil {
		logrus.WithError(err).Error("Erro ao gerar token JWT")
		responderErro(c, models.NewInternalError("Erro ao gerar token de acesso"))
		return
	}

	c.JSON(http.StatusOK, models.NovaRespostaSucesso(models.AuthResponse{
		User:        usuario.ToSimple(),
		AccessToken: token,
	}))
}

// @Summary Perfil do usuário autenticado
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.RespostaAPI{data=models.UsuarioSimple}
// @Failure 401 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /auth/perfil [get]
func (h *AuthHandler) Perfil(c *gin.Context) {
	usuarioID, _, _, err := middleware.GetUsuarioFromContext(c)
	if err != nil {
		responderErro(c, models.NewAuthenticationError("Usuário não encontrado no contexto"))
		return
	}

	usuario, err := h.authService.BuscarUsuarioPorID(c.Request.Context(), usuarioID)
	if err != nil {
		responderErro(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NovaRespostaSucesso(usuario.ToSimple()))
}

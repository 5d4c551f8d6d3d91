package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"entregas-api/internal/models"
)

// JWTClaims representa as claims customizadas do JWT
type JWTClaims struct {
	UsuarioID uuid.UUID `json:"usuario_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifica se o token JWT é válido
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortComErro(c, models.NewAuthenticationError("Token de autorização não fornecido"))
			return
		}

		// Verifica se o header tem o formato "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			abortComErro(c, models.NewAuthenticationError("Formato de token inválido. Use: Bearer <token>"))
			return
		}

		tokenString := tokenParts[1]
		claims, err := ValidateJWT(tokenString)
		if err != nil {
			logrus.WithError(err).Warn("Token JWT inválido")
			abortComErro(c, models.NewAuthenticationError("Token inválido ou expirado"))
			return
		}

		// Adiciona as informações do usuário no contexto
		c.Set("usuario_id", claims.UsuarioID)
		c.Set("usuario_email", claims.Email)
		c.Set("usuario_name", claims.Name)

		c.Next()
	}
}

func abortComErro(c *gin.Context, apiErr *models.APIError) {
	c.JSON(apiErr.StatusCode, models.NovaRespostaErro(apiErr))
	c.Abort()
}

// GenerateJWT gera um token JWT para o usuário
func GenerateJWT(usuarioID uuid.UUID, email, name string) (string, time.Time, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return "", time.Time{}, fmt.Errorf("JWT_SECRET não configurado")
	}

	expirationTime := time.Now().Add(24 * time.Hour) // Token válido por 24 horas

	claims := &JWTClaims{
		UsuarioID: usuarioID,
		Email:     email,
		Name:      name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "entregas-api",
			Subject:   usuarioID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("erro ao assinar token: %w", err)
	}

	return tokenString, expirationTime, nil
}

// ValidateJWT valida um token JWT e retorna as claims
func ValidateJWT(tokenString string) (*JWTClaims, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET não configurado")
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verifica se o método de assinatura é HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("erro ao validar token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("token inválido")
	}

	return claims, nil
}

// HashPassword gera um hash bcrypt da senha
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("erro ao gerar hash da senha: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword verifica se a senha corresponde ao hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GetUsuarioFromContext extrai as informações do usuário do contexto Gin
func GetUsuarioFromContext(c *gin.Context) (uuid.UUID, string, string, error) {
	usuarioID, exists := c.Get("usuario_id")
	if !exists {
		return uuid.Nil, "", "", fmt.Errorf("usuario_id não encontrado no contexto")
	}

	email, exists := c.Get("usuario_email")
	if !exists {
		return uuid.Nil, "", "", fmt.Errorf("usuario_email não encontrado no contexto")
	}

	name, exists := c.Get("usuario_name")
	if !exists {
		return uuid.Nil, "", "", fmt.Errorf("usuario_name não encontrado no contexto")
	}

	usuarioUUID, ok := usuarioID.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", "", fmt.Errorf("usuario_id tem tipo inválido")
	}

	usuarioEmail, ok := email.(string)
	if !ok {
		return uuid.Nil, "", "", fmt.Errorf("usuario_email tem tipo inválido")
	}

	usuarioName, ok := name.(string)
	if !ok {
		return uuid.Nil, "", "", fmt.Errorf("usuario_name tem tipo inválido")
	}

	return usuarioUUID, usuarioEmail, usuarioName, nil
}

// CORSMiddleware permite requisições cross-origin
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// LoggerMiddleware personalizado para logging estruturado
func LoggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		logrus.WithFields(logrus.Fields{
			"status_code": param.StatusCode,
			"latency":     param.Latency,
			"client_ip":   param.ClientIP,
			"method":      param.Method,
			"path":        param.Path,
			"user_agent":  param.Request.UserAgent(),
			"error":       param.ErrorMessage,
		}).Info("HTTP Request")
		return ""
	})
}

// RecoveryMiddleware personalizado para capturar panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logrus.WithFields(logrus.Fields{
			"panic":  recovered,
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Panic recuperado")

		c.JSON(http.StatusInternalServerError, models.NovaRespostaErro(
			models.NewInternalError("Erro interno do servidor")))
	})
}

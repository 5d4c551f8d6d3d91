package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestGenerateEValidateJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")

	usuarioID := uuid.New()
	token, expira, err := GenerateJWT(usuarioID, "maria@example.com", "Maria")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if expira.IsZero() {
		t.Error("expiração não deveria ser zero")
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UsuarioID != usuarioID {
		t.Errorf("usuario_id = %s, esperado %s", claims.UsuarioID, usuarioID)
	}
	if claims.Email != "maria@example.com" {
		t.Errorf("email = %s", claims.Email)
	}
	if claims.Issuer != "entregas-api" {
		t.Errorf("issuer = %s", claims.Issuer)
	}
}

func TestValidateJWTTokenInvalido(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")

	if _, err := ValidateJWT("token-qualquer"); err == nil {
		t.Error("token malformado deveria ser rejeitado")
	}
}

func TestValidateJWTSecretDiferente(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-a")
	token, _, err := GenerateJWT(uuid.New(), "x@example.com", "X")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	t.Setenv("JWT_SECRET", "segredo-b")
	if _, err := ValidateJWT(token); err == nil {
		t.Error("token assinado com outro segredo deveria ser rejeitado")
	}
}

func TestGenerateJWTSemSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, _, err := GenerateJWT(uuid.New(), "x@example.com", "X"); err == nil {
		t.Error("GenerateJWT sem JWT_SECRET deveria falhar")
	}
}

func montarRouterProtegido() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protegido", AuthMiddleware(), func(c *gin.Context) {
		usuarioID, email, name, err := GetUsuarioFromContext(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"erro": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"usuario_id": usuarioID, "email": email, "name": name})
	})
	return router
}

func TestAuthMiddlewareSemToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")
	router := montarRouterProtegido()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, esperado 401", w.Code)
	}
}

func TestAuthMiddlewareFormatoInvalido(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")
	router := montarRouterProtegido()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Token abc123")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, esperado 401", w.Code)
	}
}

func TestAuthMiddlewareTokenValido(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")
	router := montarRouterProtegido()

	token, _, err := GenerateJWT(uuid.New(), "maria@example.com", "Maria")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, esperado 200: %s", w.Code, w.Body.String())
	}
}

func TestHashECheckPassword(t *testing.T) {
	hash, err := HashPassword("senha-secreta")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "senha-secreta" {
		t.Error("hash não deveria ser a senha em claro")
	}

	if !CheckPassword("senha-secreta", hash) {
		t.Error("senha correta deveria validar")
	}
	if CheckPassword("senha-errada", hash) {
		t.Error("senha incorreta não deveria validar")
	}
}

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"entregas-api/internal/models"
)

// RateLimiter mantém um token-bucket por IP de cliente, com descarte de
// entradas ociosas para o mapa não crescer indefinidamente.
type RateLimiter struct {
	mu           sync.Mutex
	entries      map[string]*limiterEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter cria um limitador com os parâmetros dados e inicia a
// limpeza periódica em background.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		entries:      make(map[string]*limiterEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	go rl.cleanupLoop()
	return rl
}

// Allow consome um token do bucket da chave
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	entry, ok := rl.entries[key]
	if !ok {
		entry = &limiterEntry{lim: rate.NewLimiter(rl.rps, rl.burst)}
		rl.entries[key] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.lim.Allow()
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupEvery)
	defer ticker.Stop()

	for range ticker.C {
		corte := time.Now().Add(-rl.idleTTL)
		rl.mu.Lock()
		for key, entry := range rl.entries {
			if entry.lastSeen.Before(corte) {
				delete(rl.entries, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware aplica o rate limit por IP de cliente, respondendo 429 com
// Retry-After quando o bucket está vazio.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, models.NovaRespostaErro(&models.APIError{
				Type:    models.ErrorTypeBadRequest,
				Message: "Limite de requisições excedido, tente novamente em instantes",
			}))
			c.Abort()
			return
		}
		c.Next()
	}
}

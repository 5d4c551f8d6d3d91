package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"entregas-api/internal/models"
)

// Hub distribui pontos de trajeto para os assinantes de cada rota.
// Publicação nunca bloqueia: assinante lento perde pontos.
type Hub struct {
	mu   sync.Mutex
	subs map[int64]map[chan models.RotaTrajeto]struct{} // rotaID -> canais
}

// NewHub cria um hub vazio
func NewHub() *Hub {
	return &Hub{subs: make(map[int64]map[chan models.RotaTrajeto]struct{})}
}

// Subscribe registra um assinante para a rota e retorna seu canal
func (h *Hub) Subscribe(rotaID int64) chan models.RotaTrajeto {
	ch := make(chan models.RotaTrajeto, 16)
	h.mu.Lock()
	if h.subs[rotaID] == nil {
		h.subs[rotaID] = make(map[chan models.RotaTrajeto]struct{})
	}
	h.subs[rotaID][ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe remove o assinante e fecha seu canal
func (h *Hub) Unsubscribe(rotaID int64, ch chan models.RotaTrajeto) {
	h.mu.Lock()
	if m := h.subs[rotaID]; m != nil {
		delete(m, ch)
		if len(m) == 0 {
			delete(h.subs, rotaID)
		}
	}
	h.mu.Unlock()
	close(ch)
}

// Publish envia o ponto para todos os assinantes da rota
func (h *Hub) Publish(rotaID int64, trajeto models.RotaTrajeto) {
	h.mu.Lock()
	for ch := range h.subs[rotaID] {
		select {
		case ch <- trajeto:
		default:
		}
	}
	h.mu.Unlock()
}

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// StreamHandler faz o upgrade para WebSocket e envia cada novo ponto de
// trajeto da rota como JSON até o cliente desconectar.
func (h *Hub) StreamHandler(rotaID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Warn("Erro ao fazer upgrade para WebSocket")
			return
		}
		defer conn.Close()

		ch := h.Subscribe(rotaID)
		defer h.Unsubscribe(rotaID, ch)

		// Read loop só para detectar desconexão e responder pong
		done := make(chan struct{})
		conn.SetReadLimit(1 << 16)
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(20 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case trajeto, ok := <-ch:
				if !ok {
					return
				}
				if err := conn.WriteJSON(trajeto); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}

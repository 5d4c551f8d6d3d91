package ws

import (
	"testing"
	"time"

	"entregas-api/internal/models"
)

func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()

	ch := hub.Subscribe(1)
	defer hub.Unsubscribe(1, ch)

	trajeto := models.RotaTrajeto{ID: 10, Latitude: -23.5, Longitude: -46.6}
	hub.Publish(1, trajeto)

	select {
	case recebido := <-ch:
		if recebido.ID != 10 {
			t.Errorf("trajeto recebido = %+v", recebido)
		}
	case <-time.After(time.Second):
		t.Fatal("assinante não recebeu o trajeto publicado")
	}
}

func TestHubPublishRotaDiferente(t *testing.T) {
	hub := NewHub()

	ch := hub.Subscribe(1)
	defer hub.Unsubscribe(1, ch)

	hub.Publish(2, models.RotaTrajeto{ID: 99})

	select {
	case trajeto := <-ch:
		t.Errorf("assinante da rota 1 recebeu trajeto da rota 2: %+v", trajeto)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubPublishNaoBloqueia(t *testing.T) {
	hub := NewHub()

	ch := hub.Subscribe(1)
	defer hub.Unsubscribe(1, ch)

	// Enche o buffer do assinante e publica além dele; nada deve travar
	for i := 0; i < 50; i++ {
		hub.Publish(1, models.RotaTrajeto{ID: int64(i)})
	}
}

func TestHubUnsubscribeFechaCanal(t *testing.T) {
	hub := NewHub()

	ch := hub.Subscribe(1)
	hub.Unsubscribe(1, ch)

	if _, aberto := <-ch; aberto {
		t.Error("canal deveria estar fechado após Unsubscribe")
	}

	// Publicar sem assinantes não deve travar nem entrar em pânico
	hub.Publish(1, models.RotaTrajeto{ID: 1})
}

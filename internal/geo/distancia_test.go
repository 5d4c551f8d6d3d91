package geo

import (
	"math"
	"testing"
)

func TestDistanciaKm(t *testing.T) {
	// São Paulo → Rio de Janeiro, ~361 km em linha reta
	d := DistanciaKm(-23.5505, -46.6333, -22.9068, -43.1729)
	if d < 355 || d > 365 {
		t.Errorf("distância SP-Rio = %.1f km, esperado ~361 km", d)
	}
}

func TestDistanciaKmMesmoPonto(t *testing.T) {
	d := DistanciaKm(-23.5505, -46.6333, -23.5505, -46.6333)
	if d != 0 {
		t.Errorf("distância entre o mesmo ponto = %f, esperado 0", d)
	}
}

func TestDistanciaKmSimetrica(t *testing.T) {
	ida := DistanciaKm(-23.5505, -46.6333, -22.9068, -43.1729)
	volta := DistanciaKm(-22.9068, -43.1729, -23.5505, -46.6333)
	if math.Abs(ida-volta) > 1e-9 {
		t.Errorf("distância não é simétrica: ida=%f volta=%f", ida, volta)
	}
}

func TestDentroDoRaio(t *testing.T) {
	// ~1.57 km entre os pontos (0,0) e (0.01,0.01)
	base := DistanciaKm(0, 0, 0.01, 0.01)

	if !DentroDoRaio(0, 0, 0.01, 0.01, base+0.1) {
		t.Error("ponto dentro do raio foi rejeitado")
	}
	if DentroDoRaio(0, 0, 0.01, 0.01, base-0.1) {
		t.Error("ponto fora do raio foi aceito")
	}
}

func TestDentroDoRaioLimiteInclusivo(t *testing.T) {
	d := DistanciaKm(0, 0, 0.5, 0)
	if !DentroDoRaio(0, 0, 0.5, 0, d) {
		t.Error("limite do raio deveria ser inclusivo")
	}
}

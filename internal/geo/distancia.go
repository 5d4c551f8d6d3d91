package geo

import "math"

// raioTerraKm é o raio médio da Terra usado na fórmula de Haversine
const raioTerraKm = 6371

// DistanciaKm calcula a distância em quilômetros entre dois pontos
// geográficos usando a fórmula de Haversine.
func DistanciaKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dlat := lat2Rad - lat1Rad
	dlon := lon2Rad - lon1Rad

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))

	return raioTerraKm * c
}

// DentroDoRaio verifica se o ponto (lat2, lon2) está a até raioKm do ponto
// base (lat1, lon1). O limite do raio é inclusivo.
func DentroDoRaio(lat1, lon1, lat2, lon2, raioKm float64) bool {
	return DistanciaKm(lat1, lon1, lat2, lon2) <= raioKm
}

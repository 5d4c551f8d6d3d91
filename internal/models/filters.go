package models

// Parâmetros de filtro das listagens, ligados à query string via gin.
// Espelham os filtros expostos pela API: busca parcial por nome, faixas de
// valores e os filtros geográficos de pedidos.

// FamiliaFiltro são os filtros de listagem de famílias
type FamiliaFiltro struct {
	Nome     string `form:"nome"`
	Ativo    *bool  `form:"ativo"`
	Ordering string `form:"ordering"`
}

// ProdutoFiltro são os filtros de listagem de produtos
type ProdutoFiltro struct {
	Nome     string   `form:"nome"`
	Familia  *int64   `form:"familia"`
	PesoMin  *float64 `form:"peso_min"`
	PesoMax  *float64 `form:"peso_max"`
	Ativo    *bool    `form:"ativo"`
	Ordering string   `form:"ordering"`
}

// PedidoFiltro são os filtros de listagem de pedidos.
// PedidoBase + RaioKm ativam a seleção por proximidade geográfica.
type PedidoFiltro struct {
	NF                 *int64   `form:"nf"`
	Usuario            string   `form:"usuario"`
	DataInicio         string   `form:"data_inicio"`
	DataFim            string   `form:"data_fim"`
	DisponivelParaRota *bool    `form:"disponivel_para_rota"`
	Familias           []int64  `form:"familias" collection_format:"csv"`
	PedidoBase         *int64   `form:"pedido_base"`
	RaioKm             *float64 `form:"raio_km"`
	Ordering           string   `form:"ordering"`
}

// RotaFiltro são os filtros de listagem de rotas
type RotaFiltro struct {
	DataInicio    string   `form:"data_inicio"`
	DataFim       string   `form:"data_fim"`
	Status        string   `form:"status"`
	CapacidadeMin *float64 `form:"capacidade_min"`
	CapacidadeMax *float64 `form:"capacidade_max"`
	Ordering      string   `form:"ordering"`
}

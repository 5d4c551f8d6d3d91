package models

import (
	"database/sql/driver"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Data é uma data de calendário (sem hora) no formato ISO "2006-01-02",
// como trafegada pela API para dtpedido e data_rota.
type Data time.Time

const formatoData = "2006-01-02"

// ParseData interpreta uma string "AAAA-MM-DD"
func ParseData(s string) (Data, error) {
	t, err := time.Parse(formatoData, s)
	if err != nil {
		return Data{}, fmt.Errorf("data inválida %q: use o formato AAAA-MM-DD", s)
	}
	return Data(t), nil
}

func (d Data) String() string {
	return time.Time(d).Format(formatoData)
}

// MarshalJSON serializa a data como "AAAA-MM-DD"
func (d Data) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON aceita "AAAA-MM-DD"
func (d *Data) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("data inválida: %s", s)
	}
	parsed, err := ParseData(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implementa sql.Scanner
func (d *Data) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = Data(v)
		return nil
	case []byte:
		parsed, err := ParseData(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseData(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("tipo inesperado para Data: %T", value)
	}
}

// Value implementa driver.Valuer
func (d Data) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// =============================================================================
// FAMÍLIAS E PRODUTOS
// =============================================================================

// Familia representa uma família (categoria) de produtos
type Familia struct {
	ID            int64     `json:"id" db:"id"`
	Nome          string    `json:"nome" db:"nome"`
	Descricao     *string   `json:"descricao" db:"descricao"`
	Ativo         bool      `json:"ativo" db:"ativo"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	TotalProdutos int       `json:"total_produtos"`
}

// FamiliaRef é a referência de família aninhada dentro de Produto
type FamiliaRef struct {
	ID        int64   `json:"id"`
	Nome      string  `json:"nome"`
	Descricao *string `json:"descricao"`
}

// Produto representa um produto vendável, com peso e volume
type Produto struct {
	ID        int64      `json:"id" db:"id"`
	Nome      string     `json:"nome" db:"nome"`
	Peso      float64    `json:"peso" db:"peso"`
	Volume    *float64   `json:"volume" db:"volume"`
	Familia   FamiliaRef `json:"familia"`
	Ativo     bool       `json:"ativo" db:"ativo"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// ProdutoSimple é a projeção reduzida do produto usada dentro de pedidos
type ProdutoSimple struct {
	ID          int64    `json:"id"`
	Nome        string   `json:"nome"`
	Peso        float64  `json:"peso"`
	Volume      *float64 `json:"volume"`
	FamiliaNome string   `json:"familia_nome"`
}

// ToSimple converte Produto para a projeção reduzida
func (p *Produto) ToSimple() ProdutoSimple {
	return ProdutoSimple{
		ID:          p.ID,
		Nome:        p.Nome,
		Peso:        p.Peso,
		Volume:      p.Volume,
		FamiliaNome: p.Familia.Nome,
	}
}

// =============================================================================
// PEDIDOS
// =============================================================================

// ProdutoPedido representa um item dentro de um pedido
type ProdutoPedido struct {
	ID         int64         `json:"id" db:"id"`
	Produto    ProdutoSimple `json:"produto"`
	Quantidade int           `json:"quantidade" db:"quantidade"`
	PesoTotal  float64       `json:"peso_total"`
}

// CalcularPesoTotal calcula o peso do item (peso unitário × quantidade)
func (i *ProdutoPedido) CalcularPesoTotal() float64 {
	return i.Produto.Peso * float64(i.Quantidade)
}

// Pedido representa um pedido de cliente com itens e totais derivados
type Pedido struct {
	ID          int64           `json:"id" db:"id"`
	Usuario     *UsuarioSimple  `json:"usuario"`
	NF          int64           `json:"nf" db:"nf"`
	Observacao  *string         `json:"observacao" db:"observacao"`
	DtPedido    Data            `json:"dtpedido" db:"dtpedido"`
	Latitude    float64         `json:"latitude" db:"latitude"`
	Longitude   float64         `json:"longitude" db:"longitude"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	Itens       []ProdutoPedido `json:"itens"`
	PesoTotal   float64         `json:"peso_total"`
	VolumeTotal float64         `json:"volume_total"`
	TotalItens  int             `json:"total_itens"`
}

// CalcularTotais preenche os agregados do pedido a partir dos itens.
// Produtos sem volume não contribuem para o volume total.
func (p *Pedido) CalcularTotais() {
	p.PesoTotal = 0
	p.VolumeTotal = 0
	p.TotalItens = 0

	for i := range p.Itens {
		item := &p.Itens[i]
		item.PesoTotal = item.CalcularPesoTotal()
		p.PesoTotal += item.PesoTotal
		if item.Produto.Volume != nil {
			p.VolumeTotal += *item.Produto.Volume * float64(item.Quantidade)
		}
		p.TotalItens += item.Quantidade
	}
}

// PedidoSimple é a projeção reduzida do pedido usada em rotas e listagens
type PedidoSimple struct {
	ID          int64   `json:"id"`
	NF          int64   `json:"nf"`
	DtPedido    Data    `json:"dtpedido"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	UsuarioNome *string `json:"usuario_nome"`
	Observacao  *string `json:"observacao"`
}

// ToSimple converte Pedido para a projeção reduzida
func (p *Pedido) ToSimple() PedidoSimple {
	simple := PedidoSimple{
		ID:         p.ID,
		NF:         p.NF,
		DtPedido:   p.DtPedido,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		Observacao: p.Observacao,
	}
	if p.Usuario != nil {
		simple.UsuarioNome = &p.Usuario.Name
	}
	return simple
}

// =============================================================================
// ROTAS
// =============================================================================

// RotaStatus enumera os status possíveis de uma rota
type RotaStatus string

const (
	RotaPlanejada  RotaStatus = "PLANEJADA"
	RotaEmExecucao RotaStatus = "EM_EXECUCAO"
	RotaConcluida  RotaStatus = "CONCLUIDA"
)

// Valido verifica se o status é um dos três valores permitidos
func (s RotaStatus) Valido() bool {
	switch s {
	case RotaPlanejada, RotaEmExecucao, RotaConcluida:
		return true
	}
	return false
}

// ordemStatus define a progressão PLANEJADA → EM_EXECUCAO → CONCLUIDA
var ordemStatus = map[RotaStatus]int{
	RotaPlanejada:  0,
	RotaEmExecucao: 1,
	RotaConcluida:  2,
}

// TransicaoValida verifica se a mudança de status respeita a progressão
// monotônica. Permanecer no mesmo status é permitido; retroceder não.
func TransicaoValida(de, para RotaStatus) bool {
	if !de.Valido() || !para.Valido() {
		return false
	}
	return ordemStatus[para] >= ordemStatus[de]
}

// RotaTrajeto é um ponto GPS registrado durante a execução da rota
type RotaTrajeto struct {
	ID        int64     `json:"id" db:"id"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Datahora  time.Time `json:"datahora" db:"datahora"`
}

// RotaPedido é a associação de um pedido a uma rota, com ordem de entrega
type RotaPedido struct {
	ID           int64        `json:"id" db:"id"`
	Pedido       PedidoSimple `json:"pedido"`
	OrdemEntrega int          `json:"ordem_entrega" db:"ordem_entrega"`
	Entregue     bool         `json:"entregue" db:"entregue"`
	DataEntrega  *time.Time   `json:"data_entrega" db:"data_entrega"`
}

// Rota representa uma rota de entrega com pedidos, trajeto e estatísticas
type Rota struct {
	ID                int64         `json:"id" db:"id"`
	DataRota          Data          `json:"data_rota" db:"data_rota"`
	CapacidadeMax     float64       `json:"capacidade_max" db:"capacidade_max"`
	Status            RotaStatus    `json:"status" db:"status"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
	Pedidos           []RotaPedido  `json:"pedidos"`
	Trajetos          []RotaTrajeto `json:"trajetos"`
	PesoTotalPedidos  float64       `json:"peso_total_pedidos"`
	TotalPedidos      int           `json:"total_pedidos"`
	PedidosEntregues  int           `json:"pedidos_entregues"`
	PercentualEntrega float64       `json:"percentual_entrega"`
}

// CalcularEntregas preenche total de pedidos, entregues e o percentual de
// entrega (arredondado a 1 casa; 0 para rota sem pedidos).
func (r *Rota) CalcularEntregas() {
	r.TotalPedidos = len(r.Pedidos)
	r.PedidosEntregues = 0
	for i := range r.Pedidos {
		if r.Pedidos[i].Entregue {
			r.PedidosEntregues++
		}
	}

	if r.TotalPedidos == 0 {
		r.PercentualEntrega = 0
		return
	}
	percentual := float64(r.PedidosEntregues) / float64(r.TotalPedidos) * 100
	r.PercentualEntrega = math.Round(percentual*10) / 10
}

// RotaSimple é a projeção reduzida da rota para listagens
type RotaSimple struct {
	ID            int64      `json:"id"`
	DataRota      Data       `json:"data_rota"`
	CapacidadeMax float64    `json:"capacidade_max"`
	Status        RotaStatus `json:"status"`
	TotalPedidos  int        `json:"total_pedidos"`
	PesoTotal     float64    `json:"peso_total"`
}

// ToSimple converte Rota para a projeção reduzida
func (r *Rota) ToSimple() RotaSimple {
	return RotaSimple{
		ID:            r.ID,
		DataRota:      r.DataRota,
		CapacidadeMax: r.CapacidadeMax,
		Status:        r.Status,
		TotalPedidos:  r.TotalPedidos,
		PesoTotal:     r.PesoTotalPedidos,
	}
}

// =============================================================================
// REQUISIÇÕES DE ESCRITA
// =============================================================================

// ItemPedidoCreate é um item na criação de pedido
type ItemPedidoCreate struct {
	ProdutoID  int64 `json:"produto_id" binding:"required"`
	Quantidade int   `json:"quantidade" binding:"required,gt=0"`
}

// PedidoCreate representa os dados para criar um pedido com itens.
// As coordenadas são ponteiros para que 0.0 (linha do equador) seja aceito
// pelo required, que só exige presença.
type PedidoCreate struct {
	UsuarioID  *uuid.UUID         `json:"usuario_id"`
	NF         int64              `json:"nf" binding:"required"`
	Observacao *string            `json:"observacao" binding:"omitempty,max=100"`
	DtPedido   Data               `json:"dtpedido" binding:"required"`
	Latitude   *float64           `json:"latitude" binding:"required"`
	Longitude  *float64           `json:"longitude" binding:"required"`
	Itens      []ItemPedidoCreate `json:"itens" binding:"required,min=1,dive"`
}

// RotaCreate representa os dados para criar uma rota com pedidos
type RotaCreate struct {
	DataRota      Data        `json:"data_rota" binding:"required"`
	CapacidadeMax float64     `json:"capacidade_max" binding:"required,gt=0"`
	Status        *RotaStatus `json:"status"`
	PedidosIDs    []int64     `json:"pedidos_ids"`
}

// RotaStatusUpdate representa a mudança de status de uma rota
type RotaStatusUpdate struct {
	Status RotaStatus `json:"status" binding:"required"`
}

// EntregaUpdate representa a marcação de entrega de um pedido da rota
type EntregaUpdate struct {
	Entregue *bool `json:"entregue" binding:"required"`
}

// TrajetoCreate representa o registro de um ponto de trajeto. Coordenadas
// como ponteiros pelo mesmo motivo de PedidoCreate.
type TrajetoCreate struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

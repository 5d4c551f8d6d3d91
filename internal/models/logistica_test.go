package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
)

func ptrFloat(v float64) *float64 { return &v }

func TestCalcularTotais(t *testing.T) {
	pedido := Pedido{
		Itens: []ProdutoPedido{
			{Produto: ProdutoSimple{Peso: 2.5, Volume: ptrFloat(0.5)}, Quantidade: 4},
			{Produto: ProdutoSimple{Peso: 1.0, Volume: nil}, Quantidade: 3},
		},
	}

	pedido.CalcularTotais()

	if pedido.PesoTotal != 13.0 {
		t.Errorf("peso_total = %f, esperado 13.0", pedido.PesoTotal)
	}
	// Item sem volume não contribui
	if pedido.VolumeTotal != 2.0 {
		t.Errorf("volume_total = %f, esperado 2.0", pedido.VolumeTotal)
	}
	if pedido.TotalItens != 7 {
		t.Errorf("total_itens = %d, esperado 7", pedido.TotalItens)
	}
	if pedido.Itens[0].PesoTotal != 10.0 {
		t.Errorf("peso_total do item = %f, esperado 10.0", pedido.Itens[0].PesoTotal)
	}
}

func TestCalcularTotaisSemItens(t *testing.T) {
	pedido := Pedido{}
	pedido.CalcularTotais()

	if pedido.PesoTotal != 0 || pedido.VolumeTotal != 0 || pedido.TotalItens != 0 {
		t.Errorf("pedido sem itens deveria ter totais zerados, obtido peso=%f volume=%f itens=%d",
			pedido.PesoTotal, pedido.VolumeTotal, pedido.TotalItens)
	}
}

func TestCalcularEntregas(t *testing.T) {
	rota := Rota{
		Pedidos: []RotaPedido{
			{Entregue: true},
			{Entregue: true},
			{Entregue: false},
		},
	}

	rota.CalcularEntregas()

	if rota.TotalPedidos != 3 {
		t.Errorf("total_pedidos = %d, esperado 3", rota.TotalPedidos)
	}
	if rota.PedidosEntregues != 2 {
		t.Errorf("pedidos_entregues = %d, esperado 2", rota.PedidosEntregues)
	}
	// 2/3 = 66.666...% arredondado a uma casa
	if rota.PercentualEntrega != 66.7 {
		t.Errorf("percentual_entrega = %f, esperado 66.7", rota.PercentualEntrega)
	}
}

func TestCalcularEntregasSemPedidos(t *testing.T) {
	rota := Rota{}
	rota.CalcularEntregas()

	if rota.PercentualEntrega != 0 {
		t.Errorf("percentual_entrega sem pedidos = %f, esperado 0", rota.PercentualEntrega)
	}
}

func TestTransicaoValida(t *testing.T) {
	casos := []struct {
		de, para RotaStatus
		valida   bool
	}{
		{RotaPlanejada, RotaEmExecucao, true},
		{RotaEmExecucao, RotaConcluida, true},
		{RotaPlanejada, RotaConcluida, true},
		{RotaPlanejada, RotaPlanejada, true},
		{RotaConcluida, RotaConcluida, true},
		{RotaEmExecucao, RotaPlanejada, false},
		{RotaConcluida, RotaEmExecucao, false},
		{RotaConcluida, RotaPlanejada, false},
		{RotaPlanejada, RotaStatus("INVALIDO"), false},
		{RotaStatus(""), RotaPlanejada, false},
	}

	for _, caso := range casos {
		if got := TransicaoValida(caso.de, caso.para); got != caso.valida {
			t.Errorf("TransicaoValida(%s, %s) = %v, esperado %v", caso.de, caso.para, got, caso.valida)
		}
	}
}

func TestRotaStatusValido(t *testing.T) {
	for _, s := range []RotaStatus{RotaPlanejada, RotaEmExecucao, RotaConcluida} {
		if !s.Valido() {
			t.Errorf("status %s deveria ser válido", s)
		}
	}
	if RotaStatus("CANCELADA").Valido() {
		t.Error("status CANCELADA não deveria ser válido")
	}
}

func TestDataJSON(t *testing.T) {
	d, err := ParseData("2025-03-15")
	if err != nil {
		t.Fatalf("ParseData: %v", err)
	}

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2025-03-15"` {
		t.Errorf("marshal = %s, esperado \"2025-03-15\"", b)
	}

	var volta Data
	if err := json.Unmarshal(b, &volta); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if volta.String() != "2025-03-15" {
		t.Errorf("round-trip = %s, esperado 2025-03-15", volta.String())
	}
}

func TestDataJSONInvalida(t *testing.T) {
	var d Data
	if err := json.Unmarshal([]byte(`"15/03/2025"`), &d); err == nil {
		t.Error("formato fora do padrão AAAA-MM-DD deveria falhar")
	}
}

func TestDataScan(t *testing.T) {
	var d Data
	if err := d.Scan(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time): %v", err)
	}
	if d.String() != "2025-03-15" {
		t.Errorf("Scan = %s, esperado 2025-03-15", d.String())
	}

	if err := d.Scan([]byte("2024-12-01")); err != nil {
		t.Fatalf("Scan([]byte): %v", err)
	}
	if d.String() != "2024-12-01" {
		t.Errorf("Scan = %s, esperado 2024-12-01", d.String())
	}

	if err := d.Scan(42); err == nil {
		t.Error("Scan de tipo inesperado deveria falhar")
	}
}

func TestPedidoToSimple(t *testing.T) {
	obs := "deixar na portaria"
	pedido := Pedido{
		ID:         7,
		NF:         1234,
		Latitude:   -23.5,
		Longitude:  -46.6,
		Observacao: &obs,
		Usuario:    &UsuarioSimple{Name: "Maria"},
	}

	simple := pedido.ToSimple()
	if simple.ID != 7 || simple.NF != 1234 {
		t.Errorf("projeção perdeu campos: %+v", simple)
	}
	if simple.UsuarioNome == nil || *simple.UsuarioNome != "Maria" {
		t.Errorf("usuario_nome = %v, esperado Maria", simple.UsuarioNome)
	}

	pedido.Usuario = nil
	simple = pedido.ToSimple()
	if simple.UsuarioNome != nil {
		t.Error("pedido sem usuário deveria ter usuario_nome nulo")
	}
}

func TestRotaToSimple(t *testing.T) {
	rota := Rota{
		ID:               3,
		CapacidadeMax:    500,
		Status:           RotaEmExecucao,
		PesoTotalPedidos: 120.5,
		Pedidos:          []RotaPedido{{}, {}},
	}
	rota.CalcularEntregas()

	simple := rota.ToSimple()
	if simple.TotalPedidos != 2 {
		t.Errorf("total_pedidos = %d, esperado 2", simple.TotalPedidos)
	}
	if simple.PesoTotal != 120.5 {
		t.Errorf("peso_total = %f, esperado 120.5", simple.PesoTotal)
	}
	if simple.Status != RotaEmExecucao {
		t.Errorf("status = %s, esperado EM_EXECUCAO", simple.Status)
	}
}

func TestProdutoToSimple(t *testing.T) {
	produto := Produto{
		ID:      9,
		Nome:    "Caixa 20kg",
		Peso:    20,
		Familia: FamiliaRef{Nome: "Caixas"},
	}

	simple := produto.ToSimple()
	if simple.FamiliaNome != "Caixas" {
		t.Errorf("familia_nome = %s, esperado Caixas", simple.FamiliaNome)
	}
	if simple.Peso != 20 {
		t.Errorf("peso = %f, esperado 20", simple.Peso)
	}
}

// A linha do equador cruza o norte do país, então latitude 0.0 é uma
// coordenada legítima e o required deve exigir apenas a presença do campo
func TestPedidoCreateAceitaCoordenadaZero(t *testing.T) {
	corpo := []byte(`{
		"nf": 4821,
		"dtpedido": "2025-01-10",
		"latitude": 0,
		"longitude": -51.0694,
		"itens": [{"produto_id": 1, "quantidade": 2}]
	}`)

	var req PedidoCreate
	if err := binding.JSON.BindBody(corpo, &req); err != nil {
		t.Fatalf("bind com latitude 0: %v", err)
	}
	if req.Latitude == nil || *req.Latitude != 0 {
		t.Errorf("latitude = %v, esperado 0", req.Latitude)
	}
	if req.Longitude == nil || *req.Longitude != -51.0694 {
		t.Errorf("longitude = %v, esperado -51.0694", req.Longitude)
	}
}

func TestPedidoCreateSemCoordenadas(t *testing.T) {
	corpo := []byte(`{
		"nf": 4821,
		"dtpedido": "2025-01-10",
		"itens": [{"produto_id": 1, "quantidade": 2}]
	}`)

	var req PedidoCreate
	if err := binding.JSON.BindBody(corpo, &req); err == nil {
		t.Error("pedido sem coordenadas deveria falhar na validação")
	}
}

func TestTrajetoCreateAceitaCoordenadaZero(t *testing.T) {
	var req TrajetoCreate
	if err := binding.JSON.BindBody([]byte(`{"latitude": 0, "longitude": -51.0694}`), &req); err != nil {
		t.Fatalf("bind com latitude 0: %v", err)
	}
	if req.Latitude == nil || *req.Latitude != 0 {
		t.Errorf("latitude = %v, esperado 0", req.Latitude)
	}

	var incompleto TrajetoCreate
	if err := binding.JSON.BindBody([]byte(`{"longitude": -51.0694}`), &incompleto); err == nil {
		t.Error("trajeto sem latitude deveria falhar na validação")
	}
}

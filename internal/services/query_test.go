package services

import (
	"strings"
	"testing"

	"entregas-api/internal/models"
)

func TestMontarOrdenacao(t *testing.T) {
	permitidos := map[string]string{
		"nome":       "p.nome",
		"created_at": "p.created_at",
	}

	casos := []struct {
		ordering string
		esperado string
	}{
		{"", "p.id ASC"},
		{"nome", "p.nome ASC"},
		{"-nome", "p.nome DESC"},
		{"created_at", "p.created_at ASC"},
		{"-created_at", "p.created_at DESC"},
		{"peso", "p.id ASC"},
		{"-senha_hash", "p.id ASC"},
		{"  nome", "p.nome ASC"},
	}

	for _, caso := range casos {
		if got := montarOrdenacao(caso.ordering, permitidos, "p.id ASC"); got != caso.esperado {
			t.Errorf("montarOrdenacao(%q) = %q, esperado %q", caso.ordering, got, caso.esperado)
		}
	}
}

// As listagens públicas seguem a ordenação do catálogo: cadastros por nome e
// movimentos do mais recente para o mais antigo.
func TestOrdenacaoPadraoListagens(t *testing.T) {
	casos := []struct {
		permitidos map[string]string
		padrao     string
		esperado   string
	}{
		{ordenacaoFamilias, ordenacaoFamiliasPadrao, "f.nome ASC"},
		{ordenacaoProdutos, ordenacaoProdutosPadrao, "p.nome ASC"},
		{ordenacaoPedidos, ordenacaoPedidosPadrao, "p.created_at DESC"},
		{ordenacaoRotas, ordenacaoRotasPadrao, "r.created_at DESC"},
	}

	for _, caso := range casos {
		if got := montarOrdenacao("", caso.permitidos, caso.padrao); got != caso.esperado {
			t.Errorf("ordenação padrão = %q, esperado %q", got, caso.esperado)
		}
	}
}

func TestEscaparLike(t *testing.T) {
	casos := []struct {
		entrada  string
		esperado string
	}{
		{"caixa", "caixa"},
		{"10%", `10\%`},
		{"a_b", `a\_b`},
		{`c:\temp`, `c:\\temp`},
	}

	for _, caso := range casos {
		if got := escaparLike(caso.entrada); got != caso.esperado {
			t.Errorf("escaparLike(%q) = %q, esperado %q", caso.entrada, got, caso.esperado)
		}
	}
}

func TestFiltroSQLVazio(t *testing.T) {
	f := &filtroSQL{}
	if f.Where() != "" {
		t.Errorf("Where sem condições = %q, esperado vazio", f.Where())
	}
	if f.ProximoIndice() != 1 {
		t.Errorf("ProximoIndice = %d, esperado 1", f.ProximoIndice())
	}
}

func TestFiltroSQLNumeracao(t *testing.T) {
	f := &filtroSQL{}
	f.Add("a = $%d", 1)
	f.AddSemArg("b IS NULL")
	f.Add("c >= $%d", 2)

	where := f.Where()
	if where != "WHERE a = $1 AND b IS NULL AND c >= $2" {
		t.Errorf("Where = %q", where)
	}
	if len(f.Args()) != 2 {
		t.Errorf("args = %d, esperado 2", len(f.Args()))
	}
	if f.ProximoIndice() != 3 {
		t.Errorf("ProximoIndice = %d, esperado 3", f.ProximoIndice())
	}
}

func TestMontarFiltroFamilias(t *testing.T) {
	ativo := true
	f := montarFiltroFamilias(models.FamiliaFiltro{Nome: "caixa", Ativo: &ativo})

	where := f.Where()
	if !strings.Contains(where, "f.nome ILIKE '%' || $1 || '%'") {
		t.Errorf("where = %q, esperado filtro por nome", where)
	}
	if !strings.Contains(where, "f.ativo = $2") {
		t.Errorf("where = %q, esperado filtro por ativo", where)
	}
	if len(f.Args()) != 2 {
		t.Errorf("args = %v", f.Args())
	}
}

// Sem ?ativo= a listagem pública só mostra registros ativos; o parâmetro
// explícito substitui o padrão.
func TestMontarFiltroFamiliasAtivoPadrao(t *testing.T) {
	f := montarFiltroFamilias(models.FamiliaFiltro{})
	if f.Where() != "WHERE f.ativo = TRUE" {
		t.Errorf("where = %q, esperado apenas ativos por padrão", f.Where())
	}
	if len(f.Args()) != 0 {
		t.Errorf("args = %v, esperado nenhum", f.Args())
	}

	ativo := false
	f = montarFiltroFamilias(models.FamiliaFiltro{Ativo: &ativo})
	if strings.Contains(f.Where(), "f.ativo = TRUE") {
		t.Errorf("where = %q, ?ativo= explícito deveria substituir o padrão", f.Where())
	}
	if !strings.Contains(f.Where(), "f.ativo = $1") {
		t.Errorf("where = %q, esperado filtro explícito por ativo", f.Where())
	}
}

// Busca por "10%" deve casar com o literal, não com qualquer sufixo
func TestMontarFiltroFamiliasBuscaComCuringa(t *testing.T) {
	f := montarFiltroFamilias(models.FamiliaFiltro{Nome: "10%"})
	if got := f.Args()[0]; got != `10\%` {
		t.Errorf("arg = %v, esperado curinga escapado", got)
	}
}

func TestMontarFiltroProdutos(t *testing.T) {
	familia := int64(3)
	pesoMin := 1.5
	pesoMax := 10.0
	f := montarFiltroProdutos(models.ProdutoFiltro{
		Familia: &familia,
		PesoMin: &pesoMin,
		PesoMax: &pesoMax,
	})

	where := f.Where()
	for _, trecho := range []string{"p.familia_id = $1", "p.peso >= $2", "p.peso <= $3", "p.ativo = TRUE"} {
		if !strings.Contains(where, trecho) {
			t.Errorf("where = %q, esperado %q", where, trecho)
		}
	}
}

func TestMontarFiltroProdutosAtivoExplicito(t *testing.T) {
	ativo := false
	f := montarFiltroProdutos(models.ProdutoFiltro{Ativo: &ativo})
	if strings.Contains(f.Where(), "p.ativo = TRUE") {
		t.Errorf("where = %q, ?ativo= explícito deveria substituir o padrão", f.Where())
	}
	if !strings.Contains(f.Where(), "p.ativo = $1") {
		t.Errorf("where = %q, esperado filtro explícito por ativo", f.Where())
	}
}

func TestMontarFiltroPedidos(t *testing.T) {
	disponivel := true
	f, err := montarFiltroPedidos(models.PedidoFiltro{
		Usuario:            "maria",
		DataInicio:         "2025-01-01",
		DataFim:            "2025-01-31",
		DisponivelParaRota: &disponivel,
		Familias:           []int64{1, 2},
	})
	if err != nil {
		t.Fatalf("montarFiltroPedidos: %v", err)
	}

	where := f.Where()
	if !strings.Contains(where, "u.name ILIKE") {
		t.Errorf("where = %q, esperado filtro por usuário", where)
	}
	if !strings.Contains(where, "p.dtpedido >= $2") || !strings.Contains(where, "p.dtpedido <= $3") {
		t.Errorf("where = %q, esperado faixa de datas", where)
	}
	if !strings.Contains(where, "NOT EXISTS (SELECT 1 FROM rotas_pedidos") {
		t.Errorf("where = %q, esperado filtro de disponibilidade", where)
	}
	if !strings.Contains(where, "pr.familia_id = ANY($4)") {
		t.Errorf("where = %q, esperado filtro por famílias", where)
	}
}

func TestMontarFiltroPedidosEmRota(t *testing.T) {
	disponivel := false
	f, err := montarFiltroPedidos(models.PedidoFiltro{DisponivelParaRota: &disponivel})
	if err != nil {
		t.Fatalf("montarFiltroPedidos: %v", err)
	}

	where := f.Where()
	if strings.Contains(where, "NOT EXISTS") || !strings.Contains(where, "EXISTS (SELECT 1 FROM rotas_pedidos") {
		t.Errorf("where = %q, esperado EXISTS sem negação", where)
	}
}

func TestMontarFiltroPedidosDataInvalida(t *testing.T) {
	if _, err := montarFiltroPedidos(models.PedidoFiltro{DataInicio: "01/01/2025"}); err == nil {
		t.Error("data fora do padrão AAAA-MM-DD deveria falhar")
	}
}

func TestMontarFiltroRotas(t *testing.T) {
	capMin := 100.0
	f, err := montarFiltroRotas(models.RotaFiltro{
		Status:        "PLANEJADA",
		CapacidadeMin: &capMin,
	})
	if err != nil {
		t.Fatalf("montarFiltroRotas: %v", err)
	}

	where := f.Where()
	if !strings.Contains(where, "r.status = $1") {
		t.Errorf("where = %q, esperado filtro por status", where)
	}
	if !strings.Contains(where, "r.capacidade_max >= $2") {
		t.Errorf("where = %q, esperado filtro por capacidade", where)
	}
}

func TestMontarFiltroRotasStatusInvalido(t *testing.T) {
	if _, err := montarFiltroRotas(models.RotaFiltro{Status: "CANCELADA"}); err == nil {
		t.Error("status fora do enum deveria falhar")
	}
}

package models

import (
	"net/url"
	"strings"
	"testing"
)

func TestNovaListaPaginadaPrimeiraPagina(t *testing.T) {
	query := url.Values{"nome": {"caixa"}}
	lista := NovaListaPaginada([]int{1, 2}, 25, "http://localhost:8080/api/produtos", query, 1, 10)

	if lista.Count != 25 {
		t.Errorf("count = %d, esperado 25", lista.Count)
	}
	if lista.Previous != nil {
		t.Errorf("previous na primeira página deveria ser nulo, obtido %s", *lista.Previous)
	}
	if lista.Next == nil {
		t.Fatal("next deveria existir")
	}
	if !strings.Contains(*lista.Next, "page=2") {
		t.Errorf("next = %s, esperado page=2", *lista.Next)
	}
	if !strings.Contains(*lista.Next, "nome=caixa") {
		t.Errorf("next = %s, deveria preservar o filtro nome", *lista.Next)
	}
}

func TestNovaListaPaginadaPaginaIntermediaria(t *testing.T) {
	lista := NovaListaPaginada([]int{}, 30, "http://localhost:8080/api/pedidos", url.Values{}, 2, 10)

	if lista.Next == nil || !strings.Contains(*lista.Next, "page=3") {
		t.Errorf("next = %v, esperado page=3", lista.Next)
	}
	if lista.Previous == nil || !strings.Contains(*lista.Previous, "page=1") {
		t.Errorf("previous = %v, esperado page=1", lista.Previous)
	}
}

func TestNovaListaPaginadaUltimaPagina(t *testing.T) {
	lista := NovaListaPaginada([]int{}, 30, "http://localhost:8080/api/pedidos", url.Values{}, 3, 10)

	if lista.Next != nil {
		t.Errorf("next na última página deveria ser nulo, obtido %s", *lista.Next)
	}
	if lista.Previous == nil {
		t.Error("previous deveria existir na última página")
	}
}

func TestNovaListaPaginadaVazia(t *testing.T) {
	lista := NovaListaPaginada([]int{}, 0, "http://localhost:8080/api/rotas", url.Values{}, 1, 10)

	if lista.Next != nil || lista.Previous != nil {
		t.Error("lista vazia não deveria ter links de navegação")
	}
}

func TestPaginacaoOffset(t *testing.T) {
	casos := []struct {
		page, pageSize, offset int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{5, 20, 80},
		{0, 10, 0},
	}

	for _, caso := range casos {
		pag := Paginacao{Page: caso.page, PageSize: caso.pageSize}
		if got := pag.Offset(); got != caso.offset {
			t.Errorf("Offset(page=%d, size=%d) = %d, esperado %d", caso.page, caso.pageSize, got, caso.offset)
		}
	}
}

func TestNovaRespostaErro(t *testing.T) {
	resposta := NovaRespostaErro(NewNotFoundError("pedido não encontrado"))

	if resposta.Success {
		t.Error("resposta de erro deveria ter success=false")
	}
	if resposta.Detail != "pedido não encontrado" {
		t.Errorf("detail = %s", resposta.Detail)
	}
	if resposta.Code != ErrorTypeNotFound {
		t.Errorf("code = %s, esperado %s", resposta.Code, ErrorTypeNotFound)
	}
}

func TestNovaRespostaSucesso(t *testing.T) {
	resposta := NovaRespostaSucesso(map[string]int{"id": 1})

	if !resposta.Success {
		t.Error("resposta de sucesso deveria ter success=true")
	}
	if resposta.Detail != "" || resposta.Code != "" {
		t.Error("resposta de sucesso não deveria carregar detail/code")
	}
}

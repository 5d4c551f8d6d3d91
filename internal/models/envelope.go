package models

import (
	"fmt"
	"net/url"
	"strconv"
)

// RespostaAPI é o envelope padrão de toda resposta da API.
// Sucesso: {success: true, data: ...}
// Erro:    {success: false, detail: "...", code: "..."}
type RespostaAPI struct {
	Success bool        `json:"success"`
	Detail  string      `json:"detail,omitempty"`
	Code    ErrorType   `json:"code,omitempty"`
	Data    interface{} `json:"data"`
}

// NovaRespostaSucesso embrulha dados em um envelope de sucesso
func NovaRespostaSucesso(data interface{}) RespostaAPI {
	return RespostaAPI{Success: true, Data: data}
}

// NovaRespostaErro embrulha um APIError no envelope de erro
func NovaRespostaErro(err *APIError) RespostaAPI {
	return RespostaAPI{Success: false, Detail: err.Message, Code: err.Type}
}

// ListaPaginada é o envelope de listagens: results + count + links de navegação
type ListaPaginada struct {
	Results  interface{} `json:"results"`
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
}

// NovaListaPaginada monta o envelope de listagem com os links next/previous.
// baseURL é a URL da requisição (caminho absoluto), query são os parâmetros
// originais; page é 1-based.
func NovaListaPaginada(results interface{}, count int, baseURL string, query url.Values, page, pageSize int) ListaPaginada {
	lista := ListaPaginada{
		Results: results,
		Count:   count,
	}

	if pageSize <= 0 {
		return lista
	}

	// Última página com conteúdo
	ultimaPagina := (count + pageSize - 1) / pageSize
	if ultimaPagina < 1 {
		ultimaPagina = 1
	}

	if page < ultimaPagina {
		next := montarLinkPagina(baseURL, query, page+1)
		lista.Next = &next
	}

	if page > 1 {
		anterior := page - 1
		if anterior > ultimaPagina {
			anterior = ultimaPagina
		}
		previous := montarLinkPagina(baseURL, query, anterior)
		lista.Previous = &previous
	}

	return lista
}

// montarLinkPagina reconstrói a URL da listagem apontando para outra página
func montarLinkPagina(baseURL string, query url.Values, page int) string {
	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("%s?%s", baseURL, q.Encode())
}

// Paginacao representa os parâmetros de página extraídos da query string
type Paginacao struct {
	Page     int
	PageSize int
}

// Offset retorna o deslocamento SQL correspondente à página
func (p Paginacao) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

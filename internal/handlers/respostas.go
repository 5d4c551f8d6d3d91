package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"entregas-api/internal/cache"
	"entregas-api/internal/models"
	"entregas-api/internal/services"
)

const pageSizeMax = 100

// responderErro traduz erros das camadas de serviço para o envelope de erro
// da API, mapeando os erros sentinela para o status HTTP correto
func responderErro(c *gin.Context, err error) {
	var apiErr *models.APIError
	switch {
	case errors.As(err, &apiErr):
		// já tipado, usa como está
	case errors.Is(err, services.ErrCredenciaisInvalidas):
		apiErr = models.NewAuthenticationError("Email e/ou senha inválido(s)")
	case errors.Is(err, services.ErrEmailJaExiste),
		errors.Is(err, services.ErrTransicaoInvalida),
		errors.Is(err, services.ErrPedidoJaEmRota):
		apiErr = models.NewConflictError(err.Error())
	case errors.Is(err, services.ErrUsuarioNaoEncontrado),
		errors.Is(err, services.ErrFamiliaNaoEncontrada),
		errors.Is(err, services.ErrProdutoNaoEncontrado),
		errors.Is(err, services.ErrPedidoNaoEncontrado),
		errors.Is(err, services.ErrRotaNaoEncontrada),
		errors.Is(err, services.ErrPedidoForaDaRota):
		apiErr = models.NewNotFoundError(err.Error())
	case errors.Is(err, services.ErrDataInvalida),
		errors.Is(err, services.ErrStatusInvalido):
		apiErr = models.NewValidationError(err.Error(), "")
	default:
		logrus.WithError(err).Error("Erro interno não tipado")
		apiErr = models.NewInternalError("Erro interno do servidor")
	}

	c.JSON(apiErr.StatusCode, models.NovaRespostaErro(apiErr))
}

// extrairPaginacao lê page e page_size da query string, com limites sãos
func extrairPaginacao(c *gin.Context, pageSizePadrao int) models.Paginacao {
	pag := models.Paginacao{Page: 1, PageSize: pageSizePadrao}

	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			pag.Page = p
		}
	}
	if v := c.Query("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= pageSizeMax {
			pag.PageSize = ps
		}
	}

	return pag
}

// extrairID lê um parâmetro de rota numérico; responde 400 quando inválido
func extrairID(c *gin.Context, nome string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(nome), 10, 64)
	if err != nil {
		apiErr := models.NewValidationError("ID inválido", c.Param(nome))
		c.JSON(apiErr.StatusCode, models.NovaRespostaErro(apiErr))
		return 0, false
	}
	return id, true
}

// urlBase reconstrói a URL absoluta da requisição (sem query string), usada
// nos links next/previous da paginação
func urlBase(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, c.Request.URL.Path)
}

// chaveCache monta a chave do cache: prefixo da entidade + URI completa
func chaveCache(prefixo string, c *gin.Context) string {
	return prefixo + ":" + c.Request.URL.RequestURI()
}

// responderDoCache tenta servir a listagem direto do cache
func responderDoCache(c *gin.Context, cc *cache.Cache, prefixo string) bool {
	if cc == nil || !cc.Ativo() {
		return false
	}
	data, ok := cc.Get(c.Request.Context(), chaveCache(prefixo, c))
	if !ok {
		return false
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	return true
}

// responderLista responde a listagem paginada e alimenta o cache
func responderLista(c *gin.Context, cc *cache.Cache, prefixo string, results interface{}, count int, pag models.Paginacao) {
	resposta := models.NovaRespostaSucesso(
		models.NovaListaPaginada(results, count, urlBase(c), c.Request.URL.Query(), pag.Page, pag.PageSize))

	if cc != nil && cc.Ativo() {
		if data, err := json.Marshal(resposta); err == nil {
			cc.Set(c.Request.Context(), chaveCache(prefixo, c), data)
		}
	}

	c.JSON(http.StatusOK, resposta)
}

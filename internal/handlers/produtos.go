package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entregas-api/internal/cache"
	"entregas-api/internal/models"
	"entregas-api/internal/services"
)

type ProdutosHandler struct {
	produtosService *services.ProdutosService
	cache           *cache.Cache
	pageSize        int
}

func NewProdutosHandler(produtosService *services.ProdutosService, cc *cache.Cache, pageSize int) *ProdutosHandler {
	return &ProdutosHandler{
		produtosService: produtosService,
		cache:           cc,
		pageSize:        pageSize,
	}
}

// @Summary Listar produtos
// @Description Lista produtos com filtros e paginação
// @Tags produtos
// @Produce json
// @Param nome query string false "Busca parcial por nome"
// @Param familia query int false "ID da família"
// @Param peso_min query number false "Peso mínimo"
// @Param peso_max query number false "Peso máximo"
// @Param ativo query bool false "Apenas ativos/inativos"
// @Param ordering query string false "Ordenação: nome, peso, created_at (prefixo - inverte)"
// @Param page query int false "Página" default(1)
// @Param page_size query int false "Itens por página"
// @Success 200 {object} models.RespostaAPI{data=models.ListaPaginada}
// @Failure 500 {object} models.RespostaAPI
// @Router /produtos [get]
func (h *ProdutosHandler) Listar(c *gin.Context) {
	if responderDoCache(c, h.cache, "produtos") {
		return
	}

	var filtro models.ProdutoFiltro
	if err := c.ShouldBindQuery(&filtro); err != nil {
		responderErro(c, models.NewValidationError("Parâmetros inválidos", err.Error()))
		return
	}

	pag := extrairPaginacao(c, h.pageSize)
	produtos, total, err := h.produtosService.Listar(c.Request.Context(), filtro, pag)
	if err != nil {
		responderErro(c, err)
		return
	}

	responderLista(c, h.cache, "produtos", produtos, total, pag)
}

// @Summary Detalhar produto
// @Tags produtos
// @Produce json
// @Param id path int true "ID do produto"
// @Success 200 {object} models.RespostaAPI{data=models.Produto}
// @Failure 404 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /produtos/{id} [get]
func (h *ProdutosHandler) Buscar(c *gin.Context) {
	id, ok := extrairID(c, "id")
	if !ok {
		return
	}

	produto, err := h.produtosService.Buscar(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NovaRespostaSucesso(produto))
}

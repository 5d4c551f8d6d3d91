package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entregas-api/internal/cache"
	"entregas-api/internal/models"
	"entregas-api/internal/services"
)

type FamiliasHandler struct {
	familiasService *services.FamiliasService
	cache           *cache.Cache
	pageSize        int
}

func NewFamiliasHandler(familiasService *services.FamiliasService, cc *cache.Cache, pageSize int) *FamiliasHandler {
	return &FamiliasHandler{
		familiasService: familiasService,
		cache:           cc,
		pageSize:        pageSize,
	}
}

// @Summary Listar famílias
// @Description Lista famílias de produtos com filtros e paginação
// @Tags familias
// @Produce json
// @Param nome query string false "Busca parcial por nome"
// @Param ativo query bool false "Apenas ativas/inativas"
// @Param ordering query string false "Ordenação: nome, created_at (prefixo - inverte)"
// @Param page query int false "Página" default(1)
// @Param page_size query int false "Itens por página"
// @Success 200 {object} models.RespostaAPI{data=models.ListaPaginada}
// @Failure 500 {object} models.RespostaAPI
// @Router /familias [get]
func (h *FamiliasHandler) Listar(c *gin.Context) {
	if responderDoCache(c, h.cache, "familias") {
		return
	}

	var filtro models.FamiliaFiltro
	if err := c.ShouldBindQuery(&filtro); err != nil {
		responderErro(c, models.NewValidationError("Parâmetros inválidos", err.Error()))
		return
	}

	pag := extrairPaginacao(c, h.pageSize)
	familias, total, err := h.familiasService.Listar(c.Request.Context(), filtro, pag)
	if err != nil {
		responderErro(c, err)
		return
	}

	responderLista(c, h.cache, "familias", familias, total, pag)
}

// @Summary Detalhar família
// @Tags familias
// @Produce json
// @Param id path int true "ID da família"
// @Success 200 {object} models.RespostaAPI{data=models.Familia}
// @Failure 404 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /familias/{id} [get]
func (h *FamiliasHandler) Buscar(c *gin.Context) {
	id, ok := extrairID(c, "id")
	if !ok {
		return
	}

	familia, err := h.familiasService.Buscar(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NovaRespostaSucesso(familia))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"entregas-api/internal/cache"
	"entregas-api/internal/metrics"
	"entregas-api/internal/models"
	"entregas-api/internal/services"
)

type PedidosHandler struct {
	pedidosService *services.PedidosService
	cache          *cache.Cache
	pageSize       int
}

func NewPedidosHandler(pedidosService *services.PedidosService, cc *cache.Cache, pageSize int) *PedidosHandler {
	return &PedidosHandler{
		pedidosService: pedidosService,
		cache:          cc,
		pageSize:       pageSize,
	}
}

// invalidarCache limpa as listagens afetadas por escritas em pedidos.
// Rotas também, porque agregam peso e disponibilidade de pedidos.
func (h *PedidosHandler) invalidarCache(c *gin.Context) {
	h.cache.InvalidarPrefixo(c.Request.Context(), "pedidos")
	h.cache.InvalidarPrefixo(c.Request.Context(), "rotas")
}

// @Summary Listar pedidos
// @Description Lista pedidos com filtros, incluindo a seleção por raio a partir de um pedido base
// @Tags pedidos
// @Produce json
// @Param nf query int false "Número da nota fiscal"
// @Param usuario query string false "Busca parcial pelo nome do usuário"
// @Param data_inicio query string false "Data inicial (AAAA-MM-DD)"
// @Param data_fim query string false "Data final (AAAA-MM-DD)"
// @Param disponivel_para_rota query bool false "true = sem rota; false = já em rota"
// @Param familias query string false "IDs de famílias separados por vírgula"
// @Param pedido_base query int false "Pedido de referência para o filtro geográfico"
// @Param raio_km query number false "Raio em km a partir do pedido base"
// @Param ordering query string false "Ordenação: dtpedido, nf, created_at (prefixo - inverte)"
// @Param page query int false "Página" default(1)
// @Param page_size query int false "Itens por página"
// @Success 200 {object} models.RespostaAPI{data=models.ListaPaginada}
// @Failure 400 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	if responderDoCache(c, h.cache, "pedidos") {
		return
	}

	var filtro models.PedidoFiltro
	if err := c.ShouldBindQuery(&filtro); err != nil {
		responderErro(c, models.NewValidationError("Parâmetros inválidos", err.Error()))
		return
	}

	pag := extrairPaginacao(c, h.pageSize)
	pedidos, total, err := h.pedidosService.Listar(c.Request.Context(), filtro, pag)
	if err != nil {
		responderErro(c, err)
		return
	}

	responderLista(c, h.cache, "pedidos", pedidos, total, pag)
}

// @Summary Detalhar pedido
// @Description Retorna o pedido com itens e totais de peso, volume e quantidade
// @Tags pedidos
// @Produce json
// @Param id path int true "ID do pedido"
// @Success 200 {object} models.RespostaAPI{data=models.Pedido}
// @Failure 404 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /pedidos/{id} [get]
func (h *PedidosHandler) Buscar(c *gin.Context) {
	id, ok := extrairID(c, "id")
	if !ok {
		return
	}

	pedido, err := h.pedidosService.Buscar(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NovaRespostaSucesso(pedido))
}

// @Summary Criar pedido
// @Description Cria um pedido com seus itens em uma única transação
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pedido body models.PedidoCreate true "Dados do pedido"
// @Success 201 {object} models.RespostaAPI{data=models.Pedido}
// @Failure 400 {object} models.RespostaAPI
// @Failure 401 {object} models.RespostaAPI
// @Failure 404 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /pedidos-admin [post]
func (h *PedidosHandler) Criar(c *gin.Context) {
	var req models.PedidoCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Error("Erro ao fazer bind do JSON")
		responderErro(c, models.NewValidationError("Dados inválidos", err.Error()))
		return
	}

	pedido, err := h.pedidosService.Criar(c.Request.Context(), &req)
	if err != nil {
		responderErro(c, err)
		return
	}

	metrics.PedidosCriados.Inc()
	h.invalidarCache(c)

	c.JSON(http.StatusCreated, models.NovaRespostaSucesso(pedido))
}

// @Summary Atualizar pedido
// @Description Substitui os dados e os itens do pedido
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Param pedido body models.PedidoCreate true "Dados do pedido"
// @Success 200 {object} models.RespostaAPI{data=models.Pedido}
// @Failure 400 {object} models.RespostaAPI
// @Failure 401 {object} models.RespostaAPI
// @Failure 404 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /pedidos-admin/{id} [put]
func (h *PedidosHandler) Atualizar(c *gin.Context) {
	id, ok := extrairID(c, "id")
	if !ok {
		return
	}

	var req models.PedidoCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Error("Erro ao fazer bind do JSON")
		responderErro(c, models.NewValidationError("Dados inválidos", err.Error()))
		return
	}

	pedido, err := h.pedidosService.Atualizar(c.Request.Context(), id, &req)
	if err != nil {
		responderErro(c, err)
		return
	}

	h.invalidarCache(c)

	c.JSON(http.StatusOK, models.NovaRespostaSucesso(pedido))
}

// @Summary Remover pedido
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Success 200 {object} models.RespostaAPI
// @Failure 401 {object} models.RespostaAPI
// @Failure 404 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /pedidos-admin/{id} [delete]
func (h *PedidosHandler) Remover(c *gin.Context) {
	id, ok := extrairID(c, "id")
	if !ok {
		return
	}

	if err := h.pedidosService.Remover(c.Request.Context(), id); err != nil {
		responderErro(c, err)
		return
	}

	h.invalidarCache(c)

	c.JSON(http.StatusOK, models.NovaRespostaSucesso(nil))
}

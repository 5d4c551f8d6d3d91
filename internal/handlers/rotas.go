package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"entregas-api/internal/cache"
	"entregas-api/internal/metrics"
	"entregas-api/internal/models"
	"entregas-api/internal/services"
	"entregas-api/internal/ws"
)

type RotasHandler struct {
	rotasService *services.RotasService
	hub          *ws.Hub
	cache        *cache.Cache
	pageSize     int
}

func NewRotasHandler(rotasService *services.RotasService, hub *ws.Hub, cc *cache.Cache, pageSize int) *RotasHandler {
	return &RotasHandler{
		rotasService: rotasService,
		hub:          hub,
		cache:        cc,
		pageSize:     pageSize,
	}
}

func (h *RotasHandler) invalidarCache(c *gin.Context) {
	h.cache.InvalidarPrefixo(c.Request.Context(), "rotas")
	// A disponibilidade dos pedidos muda junto com os vínculos de rota
	h.cache.InvalidarPrefixo(c.Request.Context(), "pedidos")
}

// @Summary Listar rotas
// @Description Lista rotas na projeção reduzida, com total de pedidos e peso agregados
// @Tags rotas
// @Produce json
// @Param data_inicio query string false "Data inicial (AAAA-MM-DD)"
// @Param data_fim query string false "Data final (AAAA-MM-DD)"
// @Param status query string false "PLANEJADA, EM_EXECUCAO ou CONCLUIDA"
// @Param capacidade_min query number false "Capacidade mínima"
// @Param capacidade_max query number false "Capacidade máxima"
// @Param ordering query string false "Ordenação: data_rota, status, created_at (prefixo - inverte)"
// @Param page query int false "Página" default(1)
// @Param page_size query int false "Itens por página"
// @Success 200 {object} models.RespostaAPI{data=models.ListaPaginada}
// @Failure 400 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /rotas [get]
func (h *RotasHandler) Listar(c *gin.Context) {
	if responderDoCache(c, h.cache, "rotas") {
		return
	}

	var filtro models.RotaFiltro
	if err := c.ShouldBindQuery(&filtro); err != nil {
		responderErro(c, models.NewValidationError("Parâmetros inválidos", err.Error()))
		return
	}

	pag := extrairPaginacao(c, h.pageSize)
	rotas, total, err := h.rotasService.Listar(c.Request.Context(), filtro, pag)
	if err != nil {
		responderErro(c, err)
		return
	}

	responderLista(c, h.cache, "rotas", rotas, total, pag)
}

// @Summary Detalhar rota
// @Description Retorna a rota com pedidos na ordem de entrega, trajeto e estatísticas
// @Tags rotas
// @Produce json
// @Param id path int true "ID da rota"
// @Success 200 {object} models.RespostaAPI{data=models.Rota}
// @Failure 404 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /rotas/{id} [get]
func (h *RotasHandler) Buscar(c *gin.Context) {
	id, ok := extrairID(c, "id")
	if !ok {
		return
	}

	rota, err := h.rotasService.Buscar(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NovaRespostaSucesso(rota))
}

// @Summary Criar rota
// @Description Cria uma rota e vincula os pedidos informados na ordem de entrega enviada
// @Tags rotas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rota body models.RotaCreate true "Dados da rota"
// @Success 201 {object} models.RespostaAPI{data=models.Rota}
// @Failure 400 {object} models.RespostaAPI
// @Failure 401 {object} models.RespostaAPI
// @Failure 404 {object} models.RespostaAPI
// @Failure 409 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /rotas-admin [post]
func (h *RotasHandler) Criar(c *gin.Context) {
	var req models.RotaCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Error("Erro ao fazer bind do JSON")
		responderErro(c, models.NewValidationError("Dados inválidos", err.Error()))
		return
	}

	rota, err := h.rotasService.Criar(c.Request.Context(), &req)
	if err != nil {
		responderErro(c, err)
		return
	}

	h.invalidarCache(c)

	c.JSON(http.StatusCreated, models.NovaRespostaSucesso(rota))
}

// @Summary Atualizar status da rota
// @Description Avança o status respeitando PLANEJADA → EM_EXECUCAO → CONCLUIDA
// @Tags rotas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da rota"
// @Param status body models.RotaStatusUpdate true "Novo status"
// @Success 200 {object} models.RespostaAPI{data=models.Rota}
// @Failure 400 {object} models.RespostaAPI
// @Failure 401 {object} models.RespostaAPI
// @Failure 404 {object} models.RespostaAPI
// @Failure 409 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /rotas-admin/{id}/status [patch]
func (h *RotasHandler) AtualizarStatus(c *gin.Context) {
	id, ok := extrairID(c, "id")
	if !ok {
		return
	}

	var req models.RotaStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Error("Erro ao fazer bind do JSON")
		responderErro(c, models.NewValidationError("Dados inválidos", err.Error()))
		return
	}

	rota, err := h.rotasService.AtualizarStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		responderErro(c, err)
		return
	}

	h.invalidarCache(c)

	c.JSON(http.StatusOK, models.NovaRespostaSucesso(rota))
}

// @Summary Marcar entrega de pedido
// @Description Marca ou desmarca a entrega de um pedido da rota
// @Tags rotas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da rota"
// @Param pedidoID path int true "ID do pedido"
// @Param entrega body models.EntregaUpdate true "Situação da entrega"
// @Success 200 {object} models.RespostaAPI{data=models.Rota}
// @Failure 400 {object} models.RespostaAPI
// @Failure 401 {object} models.RespostaAPI
// @Failure 404 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /rotas-admin/{id}/pedidos/{pedidoID}/entrega [patch]
func (h *RotasHandler) MarcarEntrega(c *gin.Context) {
	rotaID, ok := extrairID(c, "id")
	if !ok {
		return
	}
	pedidoID, ok := extrairID(c, "pedidoID")
	if !ok {
		return
	}

	var req models.EntregaUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Error("Erro ao fazer bind do JSON")
		responderErro(c, models.NewValidationError("Dados inválidos", err.Error()))
		return
	}

	rota, err := h.rotasService.MarcarEntrega(c.Request.Context(), rotaID, pedidoID, *req.Entregue)
	if err != nil {
		responderErro(c, err)
		return
	}

	if *req.Entregue {
		metrics.EntregasConcluidas.Inc()
	}
	h.invalidarCache(c)

	c.JSON(http.StatusOK, models.NovaRespostaSucesso(rota))
}

// @Summary Registrar ponto de trajeto
// @Description Grava um ponto GPS da rota e publica para os assinantes do stream
// @Tags rotas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da rota"
// @Param trajeto body models.TrajetoCreate true "Coordenadas do ponto"
// @Success 201 {object} models.RespostaAPI{data=models.RotaTrajeto}
// @Failure 400 {object} models.RespostaAPI
// @Failure 401 {object} models.RespostaAPI
// @Failure 404 {object} models.RespostaAPI
// @Failure 500 {object} models.RespostaAPI
// @Router /rotas-admin/{id}/trajetos [post]
func (h *RotasHandler) RegistrarTrajeto(c *gin.Context) {
	rotaID, ok := extrairID(c, "id")
	if !ok {
		return
	}

	var req models.TrajetoCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Error("Erro ao fazer bind do JSON")
		responderErro(c, models.NewValidationError("Dados inválidos", err.Error()))
		return
	}

	trajeto, err := h.rotasService.RegistrarTrajeto(c.Request.Context(), rotaID, &req)
	if err != nil {
		responderErro(c, err)
		return
	}

	metrics.TrajetosRegistrados.Inc()
	h.hub.Publish(rotaID, *trajeto)
	h.cache.InvalidarPrefixo(c.Request.Context(), "rotas")

	c.JSON(http.StatusCreated, models.NovaRespostaSucesso(trajeto))
}

// @Summary Stream de trajetos da rota
// @Description Abre um WebSocket que envia cada novo ponto de trajeto como JSON
// @Tags rotas
// @Param id path int true "ID da rota"
// @Success 101 {string} string "Switching Protocols"
// @Failure 404 {object} models.RespostaAPI
// @Router /rotas/{id}/trajetos/stream [get]
func (h *RotasHandler) StreamTrajetos(c *gin.Context) {
	rotaID, ok := extrairID(c, "id")
	if !ok {
		return
	}

	// Garante que a rota existe antes do upgrade
	if _, err := h.rotasService.Buscar(c.Request.Context(), rotaID); err != nil {
		responderErro(c, err)
		return
	}

	h.hub.StreamHandler(rotaID)(c)
}

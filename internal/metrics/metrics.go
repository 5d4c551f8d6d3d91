package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry é o registry Prometheus dedicado da API
	Registry = prometheus.NewRegistry()

	// HTTPRequests conta requisições por método, rota e status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total de requisições HTTP."},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration registra a duração das requisições em segundos
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "Duração das requisições HTTP em segundos.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// PedidosCriados conta pedidos criados
	PedidosCriados = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "pedidos_criados_total", Help: "Total de pedidos criados."},
	)

	// EntregasConcluidas conta pedidos marcados como entregues
	EntregasConcluidas = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "entregas_concluidas_total", Help: "Total de entregas concluídas."},
	)

	// TrajetosRegistrados conta pontos de trajeto registrados
	TrajetosRegistrados = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "trajetos_registrados_total", Help: "Total de pontos de trajeto registrados."},
	)
)

var regOnce sync.Once

// Register registra os coletores no registry dedicado (idempotente)
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(PedidosCriados)
		Registry.MustRegister(EntregasConcluidas)
		Registry.MustRegister(TrajetosRegistrados)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler expõe o endpoint /metrics
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware instrumenta cada requisição com contador e histograma.
// Usa o template da rota (c.FullPath) para não explodir a cardinalidade.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		inicio := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		HTTPRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(inicio).Seconds())
	}
}

package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "entregas-api/docs"
	"entregas-api/internal/cache"
	"entregas-api/internal/config"
	"entregas-api/internal/handlers"
	"entregas-api/internal/metrics"
	"entregas-api/internal/middleware"
	"entregas-api/internal/services"
	"entregas-api/internal/ws"
	"entregas-api/pkg/database"
)

// @title Entregas API
// @version 1.0
// @description API de gestão de entregas: famílias de produtos, produtos, pedidos e rotas

// @contact.name API Support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Informe o token no formato: Bearer <token>

func main() {
	// Carregar configuração
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	// Configurar logger
	logger := config.SetupLogger(cfg.LogLevel)

	// Inicializar cliente PostgreSQL
	dbClient, err := database.NewPostgresClient(cfg.DSN(), logger)
	if err != nil {
		log.Fatalf("Erro ao inicializar cliente PostgreSQL: %v", err)
	}
	defer dbClient.Close()

	// Executar migrations
	if err := dbClient.RunMigrations(); err != nil {
		log.Fatalf("Erro ao executar migrations: %v", err)
	}

	// Cache de listagens (no-op sem REDIS_URL)
	listCache := cache.New(cfg.RedisURL, logger)
	defer listCache.Close()

	// Métricas Prometheus
	metrics.Register()

	// Hub de stream de trajetos
	hub := ws.NewHub()

	// Serviços
	authService := services.NewAuthService(dbClient)
	familiasService := services.NewFamiliasService(dbClient)
	produtosService := services.NewProdutosService(dbClient)
	pedidosService := services.NewPedidosService(dbClient)
	rotasService := services.NewRotasService(dbClient)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	familiasHandler := handlers.NewFamiliasHandler(familiasService, listCache, cfg.PageSize)
	produtosHandler := handlers.NewProdutosHandler(produtosService, listCache, cfg.PageSize)
	pedidosHandler := handlers.NewPedidosHandler(pedidosService, listCache, cfg.PageSize)
	rotasHandler := handlers.NewRotasHandler(rotasService, hub, listCache, cfg.PageSize)

	// Configurar Gin
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middlewares
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(metrics.Middleware())

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	router.Use(rateLimiter.Middleware())

	// Rotas de infraestrutura
	router.GET("/health", func(c *gin.Context) {
		if err := dbClient.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", metrics.Handler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Rotas públicas de leitura
	api := router.Group("/api")
	{
		api.GET("/familias", familiasHandler.Listar)
		api.GET("/familias/:id", familiasHandler.Buscar)
		api.GET("/produtos", produtosHandler.Listar)
		api.GET("/produtos/:id", produtosHandler.Buscar)
		api.GET("/pedidos", pedidosHandler.Listar)
		api.GET("/pedidos/:id", pedidosHandler.Buscar)
		api.GET("/rotas", rotasHandler.Listar)
		api.GET("/rotas/:id", rotasHandler.Buscar)
		api.GET("/rotas/:id/trajetos/stream", rotasHandler.StreamTrajetos)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/signin", authHandler.Signin)
			auth.GET("/perfil", middleware.AuthMiddleware(), authHandler.Perfil)
		}

		// Escrita exige autenticação
		pedidosAdmin := api.Group("/pedidos-admin", middleware.AuthMiddleware())
		{
			pedidosAdmin.POST("", pedidosHandler.Criar)
			pedidosAdmin.PUT("/:id", pedidosHandler.Atualizar)
			pedidosAdmin.DELETE("/:id", pedidosHandler.Remover)
		}

		rotasAdmin := api.Group("/rotas-admin", middleware.AuthMiddleware())
		{
			rotasAdmin.POST("", rotasHandler.Criar)
			rotasAdmin.PATCH("/:id/status", rotasHandler.AtualizarStatus)
			rotasAdmin.PATCH("/:id/pedidos/:pedidoID/entrega", rotasHandler.MarcarEntrega)
			rotasAdmin.POST("/:id/trajetos", rotasHandler.RegistrarTrajeto)
		}
	}

	// Iniciar servidor
	logger.WithField("port", cfg.Port).Info("Iniciando servidor")

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Erro ao iniciar servidor")
	}
}

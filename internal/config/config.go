package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
	JWTSecret  string
	RedisURL   string
	LogLevel   string
	PageSize   int

	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadConfig carrega as configurações das variáveis de ambiente
func LoadConfig() (*Config, error) {
	// Carrega .env se existir (ignora erro em produção)
	_ = godotenv.Load()

	config := &Config{
		Port:       getEnvOrDefault("PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBName:     os.Getenv("DB_NAME"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		RedisURL:   os.Getenv("REDIS_URL"),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),
		PageSize:   getEnvIntOrDefault("PAGE_SIZE", 10),

		RateLimitRPS:   getEnvFloatOrDefault("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvIntOrDefault("RATE_LIMIT_BURST", 20),
	}

	// Validações obrigatórias
	if config.DBHost == "" {
		return nil, fmt.Errorf("DB_HOST é obrigatório")
	}
	if config.DBName == "" {
		return nil, fmt.Errorf("DB_NAME é obrigatório")
	}
	if config.DBUser == "" {
		return nil, fmt.Errorf("DB_USER é obrigatório")
	}
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET é obrigatório")
	}

	return config, nil
}

// DSN monta a string de conexão do PostgreSQL
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// SetupLogger configura o logger estruturado
func SetupLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Mantém o logger global alinhado com o da aplicação
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(level)

	return logger
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

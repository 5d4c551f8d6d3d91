package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache guarda respostas de listagem no Redis, com TTL curto e invalidação
// por prefixo de entidade. Com client nil todas as operações viram no-op,
// então a API funciona normalmente sem Redis configurado.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// New conecta ao Redis a partir da URL. URL vazia desliga o cache.
func New(redisURL string, logger *logrus.Logger) *Cache {
	if redisURL == "" {
		logger.Info("REDIS_URL não configurado, cache de listagens desligado")
		return &Cache{logger: logger}
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.WithError(err).Warn("REDIS_URL inválida, cache de listagens desligado")
		return &Cache{logger: logger}
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis indisponível, cache de listagens desligado")
		return &Cache{logger: logger}
	}

	logger.Info("Conectado ao Redis com sucesso")
	return &Cache{rdb: rdb, ttl: 30 * time.Second, logger: logger}
}

// Ativo indica se há um Redis por trás do cache
func (c *Cache) Ativo() bool {
	return c.rdb != nil
}

// Get busca uma resposta cacheada. Retorna false se ausente ou expirada.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).Warn("Erro ao ler do cache")
		return nil, false
	}
	return data, true
}

// Set guarda uma resposta com o TTL configurado
func (c *Cache) Set(ctx context.Context, key string, data []byte) {
	if c.rdb == nil {
		return
	}

	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Erro ao gravar no cache")
	}
}

// InvalidarPrefixo remove todas as chaves da entidade (ex.: "pedidos")
func (c *Cache) InvalidarPrefixo(ctx context.Context, prefixo string) {
	if c.rdb == nil {
		return
	}

	iter := c.rdb.Scan(ctx, 0, prefixo+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.WithError(err).Warn("Erro ao varrer chaves do cache")
		return
	}

	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			c.logger.WithError(err).Warn("Erro ao invalidar cache")
		}
	}
}

// Close encerra a conexão com o Redis
func (c *Cache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

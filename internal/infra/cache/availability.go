package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// AvailabilityCache кэш представлений доступности слотов поверх Redis.
// Nil-receiver безопасен: выключенный кэш представляется nil-указателем,
// все операции при этом - no-op. Ошибки Redis не фатальны - кэш-промах.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	log    Logger
}

// New подключается к Redis и возвращает кэш.
// При недоступности Redis возвращает nil - сервис работает без кэша.
func New(addr, password string, db int, ttl time.Duration, log Logger) *AvailabilityCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("cache: redis unreachable at %s, availability caching disabled: %v", addr, err)
		_ = client.Close()
		return nil
	}

	log.Info("cache: connected to redis at %s (ttl=%s)", addr, ttl)
	return &AvailabilityCache{client: client, ttl: ttl, log: log}
}

// Key строит ключ кэша для представления доступности услуги на дату
func Key(serviceID int64, date time.Time) string {
	return fmt.Sprintf("availability:%d:%s", serviceID, date.Format(domain.DateFormat))
}

// Get читает закэшированное значение в dest. Возвращает true при попадании.
func (c *AvailabilityCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache: get %s failed: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("cache: unmarshal %s failed: %v", key, err)
		return false
	}

	return true
}

// Set сохраняет значение с настроенным TTL
func (c *AvailabilityCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache: marshal %s failed: %v", key, err)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("cache: set %s failed: %v", key, err)
	}
}

// Delete инвалидирует ключи. Вызывается после коммита бронирования
// или отмены, чтобы представления доступности не отдавали устаревший счетчик.
func (c *AvailabilityCache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache: delete %v failed: %v", keys, err)
	}
}

// Close закрывает подключение к Redis
func (c *AvailabilityCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

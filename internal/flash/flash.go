package flash

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Level classifies a flash message for display.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Message is a one-shot notification shown on the next rendered page.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

const (
	cookieName = "hd_flash"
	keyPrefix  = "flash:"
	ttl        = 10 * time.Minute
)

// Store keeps pending flash messages in Redis, keyed by a random
// cookie id. When Redis is unreachable messages are dropped with a
// warning; notifications are best-effort by design.
type Store struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStore builds a store over the shared Redis client. A nil client
// disables flashes entirely.
func NewStore(client *redis.Client, logger *zap.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Success queues a success message for the caller's next page view.
func (s *Store) Success(c *fiber.Ctx, text string) {
	s.push(c, Message{Level: LevelSuccess, Text: text})
}

// Error queues an error message for the caller's next page view.
func (s *Store) Error(c *fiber.Ctx, text string) {
	s.push(c, Message{Level: LevelError, Text: text})
}

// Warning queues a warning message for the caller's next page view.
func (s *Store) Warning(c *fiber.Ctx, text string) {
	s.push(c, Message{Level: LevelWarning, Text: text})
}

// PopAll drains pending messages for the caller, oldest first.
func (s *Store) PopAll(c *fiber.Ctx) []Message {
	if s == nil || s.client == nil {
		return nil
	}
	id := c.Cookies(cookieName)
	if id == "" {
		return nil
	}

	ctx := c.UserContext()
	key := keyPrefix + id
	raw, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("flash read failed", zap.Error(err))
		}
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("flash delete failed", zap.Error(err))
	}

	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

func (s *Store) push(c *fiber.Ctx, msg Message) {
	if s == nil || s.client == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	id := s.ensureID(c)
	ctx := c.UserContext()
	key := keyPrefix + id
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("flash write failed", zap.Error(err))
	}
}

func (s *Store) ensureID(c *fiber.Ctx) string {
	if id := c.Cookies(cookieName); id != "" {
		return id
	}
	id := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    id,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return id
}

package paperdex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix string

	semanticURL     string
	semanticAPIKey  string
	semanticTimeout time.Duration
	keywordTimeout  time.Duration
	fastMode        bool

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisAuth sets the Redis ACL username (password comes from WithRedis).
func WithRedisAuth(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithRedisDB selects a logical Redis database.
func WithRedisDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithKeyPrefix overrides the key namespace (default "paperdex:").
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSemanticService points the client at a semantic search service.
// Without it, hybrid searches degrade to keyword-only results.
func WithSemanticService(baseURL, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.semanticURL = baseURL
		c.semanticAPIKey = apiKey
	})
}

// WithSemanticTimeout bounds a single semantic retrieval (default 10s).
func WithSemanticTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.semanticTimeout = d
	})
}

// WithKeywordTimeout bounds a single keyword retrieval (default 8s).
func WithKeywordTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.keywordTimeout = d
	})
}

// WithFastMode trades semantic answer quality for latency.
func WithFastMode() Option {
	return optionFunc(func(c *clientConfig) {
		c.fastMode = true
	})
}

// WithLogger sets the logger (default: no output).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

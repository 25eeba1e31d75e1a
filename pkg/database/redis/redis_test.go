package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	r := redis{port: 6379, maxRetries: defaultMaxRetries}
	for _, o := range []Option{
		WithHost("cache.internal"),
		WithPort(6380),
		WithDB(2),
		WithPoolSize(16),
		WithMinIdleConns(4),
		WithMaxConnIdleTime(time.Minute),
	} {
		o.apply(&r)
	}

	opts := r.options()
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 16, opts.PoolSize)
	assert.Equal(t, 4, opts.MinIdleConns)
	assert.Equal(t, defaultMaxRetries, opts.MaxRetries)
	assert.Equal(t, time.Minute, opts.ConnMaxIdleTime)
}

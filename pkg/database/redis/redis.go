package redis

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/kinkando/school-portal-service/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultMaxRetries      = 3
	defaultMaxConnIdleTime = 30 * time.Minute
	defaultDialTimeout     = 5 * time.Second
)

type Option interface {
	apply(*redis)
}

type optionFunc func(*redis)

func (o optionFunc) apply(r *redis) {
	o(r)
}

func WithHost(host string) Option {
	return optionFunc(func(r *redis) {
		r.host = host
	})
}

func WithPort(port int) Option {
	return optionFunc(func(r *redis) {
		r.port = port
	})
}

func WithUsername(username string) Option {
	return optionFunc(func(r *redis) {
		r.username = username
	})
}

func WithPassword(password string) Option {
	return optionFunc(func(r *redis) {
		r.password = password
	})
}

func WithDB(db int) Option {
	return optionFunc(func(r *redis) {
		r.db = db
	})
}

func WithMaxRetries(n int) Option {
	return optionFunc(func(r *redis) {
		r.maxRetries = n
	})
}

func WithPoolSize(n int) Option {
	return optionFunc(func(r *redis) {
		r.poolSize = n
	})
}

func WithMinIdleConns(n int) Option {
	return optionFunc(func(r *redis) {
		r.minIdleConns = n
	})
}

func WithMaxConnIdleTime(d time.Duration) Option {
	return optionFunc(func(r *redis) {
		r.maxConnIdleTime = d
	})
}

type redis struct {
	host            string
	port            int
	username        string
	password        string
	db              int
	maxRetries      int
	poolSize        int
	minIdleConns    int
	maxConnIdleTime time.Duration
}

func (r redis) addr() string {
	return net.JoinHostPort(r.host, strconv.Itoa(r.port))
}

func (r redis) options() *goredis.Options {
	return &goredis.Options{
		Addr:            r.addr(),
		Username:        r.username,
		Password:        r.password,
		DB:              r.db,
		MaxRetries:      r.maxRetries,
		DialTimeout:     defaultDialTimeout,
		PoolSize:        r.poolSize,
		MinIdleConns:    r.minIdleConns,
		ConnMaxIdleTime: r.maxConnIdleTime,
	}
}

// NewClient connects and pings the server, exiting the process when the ping fails.
func NewClient(options ...Option) *goredis.Client {
	r := redis{
		port:            6379,
		maxRetries:      defaultMaxRetries,
		maxConnIdleTime: defaultMaxConnIdleTime,
	}
	for _, o := range options {
		o.apply(&r)
	}

	logger.Infof("redis: connecting to %s", r.addr())

	client := goredis.NewClient(r.options())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatalf("redis: ping: %s", err.Error())
	}

	logger.Infof("redis: connected to %s", r.addr())
	return client
}

func Shutdown(client *goredis.Client) {
	logger.Info("redis: shutting down")
	if err := client.Close(); err != nil {
		logger.Errorf("redis: close: %s", err.Error())
		return
	}
	logger.Info("redis: shutdown")
}

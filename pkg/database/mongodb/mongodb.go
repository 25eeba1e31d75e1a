package mongodb

import (
	"context"
	"time"

	"github.com/kinkando/school-portal-service/pkg/logger"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	defaultConnectTimeout         = 10 * time.Second
	defaultServerSelectionTimeout = 5 * time.Second
	defaultMaxConnIdleTime        = 15 * time.Minute
)

type Option interface {
	apply(*mongoDB)
}

type optionFunc func(*mongoDB)

func (o optionFunc) apply(m *mongoDB) {
	o(m)
}

func WithURI(uri string) Option {
	return optionFunc(func(m *mongoDB) {
		m.uri = uri
	})
}

func WithAppName(appName string) Option {
	return optionFunc(func(m *mongoDB) {
		m.appName = appName
	})
}

func WithMaxPoolSize(n uint64) Option {
	return optionFunc(func(m *mongoDB) {
		m.maxPoolSize = n
	})
}

func WithMinPoolSize(n uint64) Option {
	return optionFunc(func(m *mongoDB) {
		m.minPoolSize = n
	})
}

func WithConnectTimeout(d time.Duration) Option {
	return optionFunc(func(m *mongoDB) {
		if d > 0 {
			m.connectTimeout = d
		}
	})
}

func WithMaxConnIdleTime(d time.Duration) Option {
	return optionFunc(func(m *mongoDB) {
		m.maxConnIdleTime = d
	})
}

type mongoDB struct {
	uri             string
	appName         string
	maxPoolSize     uint64
	minPoolSize     uint64
	connectTimeout  time.Duration
	maxConnIdleTime time.Duration
}

// New connects and pings the deployment, exiting the process when either fails.
func New(options ...Option) *mongo.Client {
	m := mongoDB{
		connectTimeout:  defaultConnectTimeout,
		maxConnIdleTime: defaultMaxConnIdleTime,
	}
	for _, o := range options {
		o.apply(&m)
	}

	clientOptions := m.clientOptions()
	hosts := clientOptions.Hosts

	logger.Infof("mongodb: connecting to %v", hosts)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		logger.Fatalf("mongodb: connect: %s", err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.connectTimeout)
	defer cancel()

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		logger.Fatalf("mongodb: ping: %s", err.Error())
	}

	logger.Infof("mongodb: connected to %v", hosts)
	return client
}

func (m mongoDB) clientOptions() *options.ClientOptions {
	clientOptions := options.Client().
		ApplyURI(m.uri).
		SetReadPreference(readpref.Primary()).
		SetRetryReads(true).
		SetRetryWrites(true).
		SetConnectTimeout(m.connectTimeout).
		SetServerSelectionTimeout(defaultServerSelectionTimeout).
		SetMaxConnIdleTime(m.maxConnIdleTime)

	if m.appName != "" {
		clientOptions.SetAppName(m.appName)
	}
	if m.maxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(m.maxPoolSize)
	}
	if m.minPoolSize > 0 && m.minPoolSize <= m.maxPoolSize {
		clientOptions.SetMinPoolSize(m.minPoolSize)
	}
	return clientOptions
}

func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

func Shutdown(client *mongo.Client) {
	logger.Info("mongodb: shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Errorf("mongodb: disconnect: %s", err.Error())
		return
	}
	logger.Info("mongodb: shutdown")
}

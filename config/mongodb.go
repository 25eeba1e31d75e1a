package config

import "time"

type MongoDBConfig struct {
	URI            string        `env:"URI,required"`
	Database       string        `env:"DATABASE" envDefault:"school"`
	MaxPoolSize    uint64        `env:"MAX_POOL_SIZE" envDefault:"10"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

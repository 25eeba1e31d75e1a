package config

type Config struct {
	App     AppConfig     `envPrefix:"APP_"`
	MongoDB MongoDBConfig `envPrefix:"MONGODB_"`
	Redis   RedisConfig   `envPrefix:"REDIS_"`
}

package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "staysdash"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultCORSOrigins = "http://localhost:3000,http://localhost:8080"

	DefaultCacheTTL  = 15 * time.Minute
	DefaultCacheSize = 1024

	DefaultMetaRepasse           = 3500.0
	DefaultIncluirLimpezaDefault = true

	DefaultStaysTimeout = 30 * time.Second

	DefaultKafkaEventsTopic = "stays.webhook-events"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

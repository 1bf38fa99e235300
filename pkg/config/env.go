package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvAPIToken    = "API_TOKEN"
	EnvCORSOrigins = "CORS_ORIGINS"

	EnvCacheTTL              = "CACHE_TTL"
	EnvCacheSize             = "CACHE_SIZE"
	EnvMetaRepasse           = "META_REPASSE"
	EnvIncluirLimpezaDefault = "INCLUIR_LIMPEZA_DEFAULT"

	EnvStaysURL      = "STAYS_URL"
	EnvStaysLogin    = "STAYS_LOGIN"
	EnvStaysPassword = "STAYS_PASSWORD"
	EnvStaysTimeout  = "STAYS_TIMEOUT"

	EnvKafkaBrokers     = "KAFKA_BROKERS"
	EnvKafkaEventsTopic = "KAFKA_EVENTS_TOPIC"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)

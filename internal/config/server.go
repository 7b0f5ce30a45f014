package config

// ServerConfig holds process-level settings read from the environment
type ServerConfig struct {
	Port      string
	MongoURI  string
	MongoDB   string
	RedisAddr string
}

// DefaultServerConfig returns the server configuration with defaults
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:      getEnvOrDefault("PORT", "8080"),
		MongoURI:  getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017/inspectkit"),
		MongoDB:   getEnvOrDefault("MONGO_DB", "inspectkit"),
		RedisAddr: getEnvOrDefault("REDIS_URI", "localhost:6379"),
	}
}

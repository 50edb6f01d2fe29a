package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Object storage configuration
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	// Application configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int
	PlatformsFile     string

	// AI copilot configuration
	AnthropicAPIKey string
	AIModel         string

	// Application metadata
	Debug   bool
	Version string
}

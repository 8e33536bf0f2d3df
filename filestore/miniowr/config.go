package miniowr

// Config defines the configuration options for MinIO client.
type Config struct {
	// Endpoint is the MinIO server endpoint (e.g., "localhost:9000").
	Endpoint string `yaml:"endpoint" validate:"required"`

	AccessKey string `yaml:"access_key" validate:"required"`
	SecretKey string `yaml:"secret_key" validate:"required" mask:"true"`

	// Bucket holds the uploaded spot images. It is created on startup if missing.
	Bucket string `yaml:"bucket" validate:"required" default:"skatespots"`

	// UseSSL enables HTTPS connection to MinIO server.
	UseSSL bool `yaml:"use_ssl" default:"false"`
}

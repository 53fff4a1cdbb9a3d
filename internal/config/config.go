package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

const (
	MongoDriver     = "mongo"
	FirestoreDriver = "firestore"
	MemoryDriver    = "memory"
)

// ServerConfig is a struct that contains configuration values for the server.
type ServerConfig struct {
	// Port is the port the server should run on.
	Port int `envconfig:"PORT" default:"5000" validate:"min=1,max=65535"`
	// AllowedOrigins is a list of URLs that the server will accept requests from.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*" validate:"min=1"`
	// MaxBodyBytes caps the size of request bodies.
	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"1048576" validate:"gt=0"`
	// ShutdownTimeout is how long in-flight requests get to finish once the server is asked to stop.
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// StoreDriver selects the document store backing the courses collection.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"mongo" validate:"oneof=mongo firestore memory"`
	// LazyConnect defers connecting to the store until the first request. When false the server refuses to start
	// without a working store connection.
	LazyConnect bool `envconfig:"LAZY_CONNECT" default:"false"`
	// ConnectTimeout bounds the initial connection attempt.
	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"10s"`
	// DatabaseName is the logical database holding the courses collection.
	DatabaseName string `envconfig:"DATABASE_NAME" default:"CourseManagementDB" validate:"required"`
	// CollectionName is the name of the courses collection.
	CollectionName string `envconfig:"COLLECTION_NAME" default:"courses" validate:"required"`

	// MongoURI is the connection string of the MongoDB deployment. MONGODB_URI is accepted as a fallback.
	MongoURI       string `envconfig:"MONGO_URI" validate:"required_if=StoreDriver mongo"`
	LegacyMongoURI string `envconfig:"MONGODB_URI"`

	// FirebaseCredentialsFile is a service account key file. If empty, application default credentials are used.
	FirebaseCredentialsFile string `envconfig:"FIREBASE_CREDENTIALS_FILE"`
	// FirebaseProjectID overrides the project inferred from the credentials.
	FirebaseProjectID string `envconfig:"FIREBASE_PROJECT_ID"`
}

// DefaultConfig returns a valid configuration backed by the in-memory store.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:            5000,
		AllowedOrigins:  []string{"*"},
		MaxBodyBytes:    1 << 20,
		ShutdownTimeout: 10 * time.Second,
		StoreDriver:     MemoryDriver,
		ConnectTimeout:  10 * time.Second,
		DatabaseName:    "CourseManagementDB",
		CollectionName:  "courses",
	}
}

// Load reads the configuration from the process environment and validates it.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	if cfg.MongoURI == "" {
		cfg.MongoURI = cfg.LegacyMongoURI
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for missing or inconsistent values.
func (c *ServerConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.StoreDriver == FirestoreDriver && c.FirebaseProjectID == "" && c.FirebaseCredentialsFile == "" {
		return fmt.Errorf("invalid configuration: firestore driver needs FIREBASE_PROJECT_ID or FIREBASE_CREDENTIALS_FILE")
	}

	return nil
}

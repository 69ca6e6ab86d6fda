package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Port            string
	SecretKey       []byte
	AccessTokenTTL  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
	DB              DBConfig
	Admin           AdminConfig
}

type DBConfig struct {
	Driver      string
	DatabaseURL string
	MongoURI    string
	MongoDB     string
}

// AdminConfig describes the admin account ensured at startup. It is skipped
// when Email or Password is empty.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

// Load reads the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return nil, errors.New("JWT secret key not set")
	}

	ttl, err := getDuration("ACCESS_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	shutdown, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverMongo))
	switch driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return nil, errors.New("DB_DRIVER must be one of postgres, mongo, memory")
	}

	port := getEnv("PORT", "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &Config{
		Port:            port,
		SecretKey:       []byte(secret),
		AccessTokenTTL:  ttl,
		ShutdownTimeout: shutdown,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		DB: DBConfig{
			Driver:      driver,
			DatabaseURL: getEnv("DATABASE_URL", "postgres://postgres@localhost:5432/foodcourt?sslmode=disable"),
			MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:     getEnv("MONGO_DB", "foodcourt"),
		},
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Admin User"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.New(key + ": " + err.Error())
	}
	return d, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config is the server configuration, read from a .env file, the
// environment and command-line flags, in increasing order of precedence.
type Config struct {
	ServerPort        string
	StoreDriver       string
	MongoURI          string
	MongoDBName       string
	JWTSecret         string
	LogFile           string
	LogLevel          string
	CORSOrigin        string
	PasswordBlackList string
	// AdminEmail and AdminPassword seed the bootstrap admin when both are set.
	AdminEmail    string
	AdminPassword string
}

// Load parses args (without the program name). A missing env file is not an error.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("taskboard", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "path to a dotenv file")
	port := flags.String("port", "", "HTTP port, overrides SERVER_PORT")
	store := flags.String("store", "", "store driver (mongo|memory), overrides STORE_DRIVER")
	logFile := flags.String("log-file", "", "log file path, overrides LOG_FILE")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", *envFile, err)
	}

	cfg := &Config{
		ServerPort:        getenv("SERVER_PORT", "8080"),
		StoreDriver:       getenv("STORE_DRIVER", StoreMongo),
		MongoURI:          getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getenv("MONGO_DB_NAME", "taskboard"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LogFile:           os.Getenv("LOG_FILE"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		CORSOrigin:        getenv("CORS_ORIGIN", "*"),
		PasswordBlackList: os.Getenv("PASSWORD_BLACKLIST"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
	}
	if flags.Changed("port") {
		cfg.ServerPort = *port
	}
	if flags.Changed("store") {
		cfg.StoreDriver = *store
	}
	if flags.Changed("log-file") {
		cfg.LogFile = *logFile
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, StoreMongo, StoreMemory)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT is empty")
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package core

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jo-hoe/goportfolio/internal/backend/imageprocessing"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

// Site holds the owner details rendered into the static pages
type Site struct {
	OwnerName   string `yaml:"ownerName"`
	Email       string `yaml:"email"`
	LinkedInURL string `yaml:"linkedInUrl"`
	SourceURL   string `yaml:"sourceUrl"`
}

type Flash struct {
	Type          string        `yaml:"type"`
	RedisAddress  string        `yaml:"redisAddress"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB"`
	TTL           time.Duration `yaml:"ttl"`
}

type ServiceConfig struct {
	Port            int      `yaml:"port"`
	LogLevel        string   `yaml:"logLevel"`
	Database        Database `yaml:"database"`
	StaticDirectory string   `yaml:"staticDirectory"`
	// ImageDirectory defaults to <staticDirectory>/images
	ImageDirectory    string                          `yaml:"imageDirectory"`
	ResumeDocument    string                          `yaml:"resumeDocument"`
	Site              Site                            `yaml:"site"`
	Flash             Flash                           `yaml:"flash"`
	ThumbnailCommands []imageprocessing.CommandConfig `yaml:"thumbnailCommands"`
	RateLimit         float64                         `yaml:"rateLimit"`
	CSRF              bool                            `yaml:"csrf"`
}

// DefaultConfig is used for every value the YAML file leaves out
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:     8080,
		LogLevel: "info",
		Database: Database{
			Type:             "sqlite",
			ConnectionString: "projects.db",
		},
		StaticDirectory: "static",
		ResumeDocument:  "Siddique_Saad_Resume.pdf",
		Site: Site{
			OwnerName:   "Saad Siddique",
			Email:       "saad.siddique@email.com",
			LinkedInURL: "https://www.linkedin.com/in/saadhsiddique/",
			SourceURL:   "https://github.com/saadsidd-iu/AiDD-assignment-7-saad-siddique",
		},
		Flash: Flash{
			Type: "cookie",
			TTL:  10 * time.Minute,
		},
		ThumbnailCommands: []imageprocessing.CommandConfig{
			{Name: imageprocessing.PngConverterCommandName},
			{Name: imageprocessing.PixelScaleCommandName, Params: map[string]any{"width": 480}},
		},
		RateLimit: 5,
	}
}

// LoadConfig loads configuration from the specified YAML file and applies environment overrides.
// A missing file is an error; a .env file next to the working directory is optional.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables only")
	}
	applyEnvOverrides(config)

	if config.ImageDirectory == "" {
		config.ImageDirectory = filepath.Join(config.StaticDirectory, "images")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func applyEnvOverrides(config *ServiceConfig) {
	config.Port = getEnvAsInt("PORT", config.Port)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)
	config.Database.Type = getEnv("DATABASE_TYPE", config.Database.Type)
	config.Database.ConnectionString = getEnv("DATABASE_CONNECTION_STRING", config.Database.ConnectionString)
	config.StaticDirectory = getEnv("STATIC_DIRECTORY", config.StaticDirectory)
	config.ImageDirectory = getEnv("IMAGE_DIRECTORY", config.ImageDirectory)
	config.Flash.Type = getEnv("FLASH_TYPE", config.Flash.Type)
	config.Flash.RedisAddress = getEnv("REDIS_ADDRESS", config.Flash.RedisAddress)
	config.Flash.RedisPassword = getEnv("REDIS_PASSWORD", config.Flash.RedisPassword)
}

// Validate checks the settings that would otherwise only fail on first use
func (c *ServiceConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.Database.Type {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database type: %q", c.Database.Type)
	}
	if c.Database.ConnectionString == "" {
		return fmt.Errorf("database connection string is required")
	}
	switch c.Flash.Type {
	case "cookie":
	case "redis":
		if c.Flash.RedisAddress == "" {
			return fmt.Errorf("redis flash store requires redisAddress")
		}
	default:
		return fmt.Errorf("unsupported flash type: %q", c.Flash.Type)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rateLimit must not be negative, got %v", c.RateLimit)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return validateCommands(c.ThumbnailCommands)
}

// ParseLogLevel maps the configured level name onto a slog level
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %q", level)
	}
}

// validateCommands ensures all command configurations have required fields
func validateCommands(commands []imageprocessing.CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		if cmd.Name == "" {
			return fmt.Errorf("command at index %d has empty name", i)
		}
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate command name: %s", cmd.Name)
		}
		seenNames[cmd.Name] = true
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}

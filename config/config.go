package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath points at the YAML config file.
	EnvConfigPath = "PDFTEXT_CONFIG"

	defaultConfigPath = "config.yaml"
)

var (
	once      sync.Once
	appConfig *Config
	loadErr   error
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Files    FilesConfig    `yaml:"files"`
	OCR      OCRConfig      `yaml:"ocr"`
	Store    StoreConfig    `yaml:"store"`
	Redis    RedisConfig    `yaml:"redis"`
	Queue    QueueConfig    `yaml:"queue"`
	Cloud    CloudConfig    `yaml:"cloud"`
	S3       S3Config       `yaml:"s3"`
	Minio    MinioConfig    `yaml:"minio"`
	GCS      GCSConfig      `yaml:"gcs"`
	Textract TextractConfig `yaml:"textract"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowOrigins    []string      `yaml:"allowOrigins"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type LogConfig struct {
	Level       string   `yaml:"level"`
	Encoding    string   `yaml:"encoding"`
	OutputPaths []string `yaml:"outputPaths"`
	ErrorPaths  []string `yaml:"errorPaths"`
	MaxSize     int      `yaml:"maxSize"`
	MaxBackups  int      `yaml:"maxBackups"`
	MaxAge      int      `yaml:"maxAge"`
	Compress    bool     `yaml:"compress"`
	Development bool     `yaml:"development"`
}

// FilesConfig controls where uploads and extracted text live.
type FilesConfig struct {
	TempDir       string `yaml:"tempDir"`
	MaxUploadSize int64  `yaml:"maxUploadSize"`
}

type OCRConfig struct {
	// Engine is one of "tesseract", "textract" or "none".
	Engine      string   `yaml:"engine"`
	Languages   []string `yaml:"languages"`
	PageSegMode int      `yaml:"pageSegMode"`
	Marker      string   `yaml:"marker"`
	Preprocess  bool     `yaml:"preprocess"`
	// Denoise is the blur sigma applied before recognition. Zero disables it.
	Denoise     float64  `yaml:"denoise"`
}

type StoreConfig struct {
	// Backend is "memory" or "redis".
	Backend   string `yaml:"backend"`
	KeyPrefix string `yaml:"keyPrefix"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type QueueConfig struct {
	Enabled     bool           `yaml:"enabled"`
	Concurrency int            `yaml:"concurrency"`
	MaxRetry    int            `yaml:"maxRetry"`
	Timeout     time.Duration  `yaml:"timeout"`
	Queues      map[string]int `yaml:"queues"`
}

type CloudConfig struct {
	// Backend is "none", "s3", "minio" or "gcs".
	Backend       string        `yaml:"backend"`
	PresignExpiry time.Duration `yaml:"presignExpiry"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			AllowOrigins:    []string{"*"},
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:       "info",
			Encoding:    "json",
			OutputPaths: []string{"stdout", "logs/app.log"},
			ErrorPaths:  []string{"stderr"},
			MaxSize:     100,
			MaxBackups:  3,
			MaxAge:      7,
			Compress:    true,
		},
		Files: FilesConfig{
			TempDir:       filepath.Join(os.TempDir(), "pdftext"),
			MaxUploadSize: 50 * 1024 * 1024,
		},
		OCR: OCRConfig{
			Engine:      "tesseract",
			Languages:   []string{"eng"},
			PageSegMode: 3,
			Marker:      "[OCR]",
			Preprocess:  true,
		},
		Store: StoreConfig{
			Backend:   "memory",
			KeyPrefix: "pdftext:job:",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Queue: QueueConfig{
			Concurrency: 4,
			Timeout:     30 * time.Minute,
			Queues: map[string]int{
				"default": 1,
			},
		},
		Cloud: CloudConfig{
			Backend:       "none",
			PresignExpiry: time.Hour,
		},
		Textract: TextractConfig{
			MinConfidence: 80,
		},
	}
}

// GetConfig loads the process-wide configuration once. The .env file next to
// the module root is loaded first so its values take part in env overrides.
func GetConfig() (*Config, error) {
	once.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		rootDir := filepath.Dir(filepath.Dir(filename))
		envPath := filepath.Join(rootDir, ".env")
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, falling back to environment variables", envPath)
		}

		appConfig, loadErr = Load(PathFromEnv())
	})
	return appConfig, loadErr
}

// PathFromEnv returns the config file named by PDFTEXT_CONFIG, or
// config.yaml in the working directory.
func PathFromEnv() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	return defaultConfigPath
}

// Load reads the YAML file at path (a missing file is not an error), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error

	switch c.OCR.Engine {
	case "tesseract", "textract", "none":
	default:
		errs = append(errs, fmt.Errorf("unsupported ocr engine: %q", c.OCR.Engine))
	}
	if c.OCR.Denoise < 0 {
		errs = append(errs, errors.New("ocr denoise must not be negative"))
	}
	if c.OCR.Marker == "" {
		errs = append(errs, errors.New("ocr marker must not be empty"))
	}

	switch c.Store.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("unsupported job store backend: %q", c.Store.Backend))
	}

	switch c.Cloud.Backend {
	case "none", "s3", "minio", "gcs":
	default:
		errs = append(errs, fmt.Errorf("unsupported cloud backend: %q", c.Cloud.Backend))
	}

	if c.Queue.Enabled && c.Store.Backend != "redis" {
		errs = append(errs, errors.New("async extraction requires the redis job store"))
	}
	if c.Files.TempDir == "" {
		errs = append(errs, errors.New("files.tempDir must be set"))
	}
	if c.Files.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("files.maxUploadSize must be positive"))
	}

	return errors.Join(errs...)
}

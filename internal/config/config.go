package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Receipt storage backends.
const (
	BackendLocal = "local"
	BackendDrive = "drive"
)

type Config struct {
	// HTTP Server
	Port string

	// Receipt storage
	ReceiptBackend  string
	ReceiptDir      string
	ReceiptBaseLink string
	DriveFolderID   string

	// Server timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Upload limit for receipt attachments, in bytes.
	MaxUploadBytes int64
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		ReceiptBackend:  getEnv("RECEIPT_BACKEND", BackendLocal),
		ReceiptDir:      getEnv("RECEIPT_DIR", "./data/receipts"),
		ReceiptBaseLink: getEnv("RECEIPT_BASE_LINK", ""),
		DriveFolderID:   getEnv("DRIVE_FOLDER_ID", ""),

		ReadTimeout:  getEnvDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:  getEnvDuration("IDLE_TIMEOUT", 60*time.Second),

		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.ReceiptBackend {
	case BackendLocal:
		if c.ReceiptDir == "" {
			errors = append(errors, "receipt directory cannot be empty when using local backend")
		} else {
			dir := filepath.Clean(c.ReceiptDir)
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create receipt directory '%s': %v", dir, err))
				}
			}
		}
	case BackendDrive:
		if c.DriveFolderID == "" {
			errors = append(errors, "DRIVE_FOLDER_ID is required when using drive backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid receipt backend '%s': must be one of [%s %s]", c.ReceiptBackend, BackendLocal, BackendDrive))
	}

	if c.ReceiptBaseLink != "" {
		if _, err := url.Parse(c.ReceiptBaseLink); err != nil {
			errors = append(errors, fmt.Sprintf("invalid receipt base link '%s': %v", c.ReceiptBaseLink, err))
		}
	}

	if c.MaxUploadBytes < 1 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %d: must be positive", c.MaxUploadBytes))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

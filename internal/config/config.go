package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/masa-finance/birdnet/pkg/client"
)

const defaultListenAddress = ":8080"
const defaultUserAgent = "birdnet/1.0"

// AppConfiguration carries everything read from the environment at startup.
// Components unmarshal from it into their own typed configuration.
type AppConfiguration map[string]any

func ReadConfig() AppConfiguration {
	ac := AppConfiguration{}

	logLevel := os.Getenv("LOG_LEVEL")
	level := ParseLogLevel(logLevel)
	ac["log_level"] = level.String()
	SetLogLevel(level)

	// An optional .env next to the binary supplements the environment.
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			logrus.Warnf("Failed reading env file %s: %v", envFile, err)
		}
	} else if err := godotenv.Load(filepath.Join(".", ".env")); err != nil {
		logrus.Debug("No .env file found, reading from environment variables only")
	}

	listenAddress := os.Getenv("LISTEN_ADDRESS")
	if listenAddress == "" {
		listenAddress = defaultListenAddress
	}
	ac["listen_address"] = listenAddress

	// API key protecting the local HTTP façade (empty disables auth).
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		ac["api_key"] = apiKey
	}

	userAgent := os.Getenv("USER_AGENT")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	ac["user_agent"] = userAgent

	requestTimeout := 60
	if s := os.Getenv("REQUEST_TIMEOUT_SECONDS"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			requestTimeout = v
		} else {
			logrus.Errorf("Error parsing REQUEST_TIMEOUT_SECONDS %q. Setting to default.", s)
		}
	}
	ac["request_timeout"] = time.Duration(requestTimeout) * time.Second

	ac["primary_token"] = os.Getenv("PRIMARY_TOKEN")
	ac["primary_token_secret"] = os.Getenv("PRIMARY_TOKEN_SECRET")

	alternateToken := os.Getenv("ALTERNATE_TOKEN")
	if alternateToken != "" {
		logrus.Info("Alternate identity credentials found")
	}
	ac["alternate_token"] = alternateToken
	ac["alternate_token_secret"] = os.Getenv("ALTERNATE_TOKEN_SECRET")

	ac["profiling_enabled"] = os.Getenv("ENABLE_PPROF") == "true"

	return ac
}

// Unmarshal unmarshals the configuration into the supplied interface.
func (ac AppConfiguration) Unmarshal(v any) error {
	data, err := json.Marshal(ac)
	if err != nil {
		return fmt.Errorf("error marshalling configuration: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	return nil
}

func (ac AppConfiguration) ListenAddress() string {
	return ac.GetString("listen_address", defaultListenAddress)
}

func (ac AppConfiguration) UserAgent() string {
	return ac.GetString("user_agent", defaultUserAgent)
}

func (ac AppConfiguration) RequestTimeout() time.Duration {
	return ac.GetDuration("request_timeout", 60)
}

// PrimaryIdentity returns the credential context used for regular calls.
func (ac AppConfiguration) PrimaryIdentity() client.Identity {
	return client.Identity{
		Name:        "primary",
		Token:       ac.GetString("primary_token", ""),
		TokenSecret: ac.GetString("primary_token_secret", ""),
	}
}

// AlternateIdentity returns the second credential context used for
// blocked-content fallback. Unconfigured when the token is empty.
func (ac AppConfiguration) AlternateIdentity() client.Identity {
	return client.Identity{
		Name:        "alternate",
		Token:       ac.GetString("alternate_token", ""),
		TokenSecret: ac.GetString("alternate_token_secret", ""),
	}
}

func (ac AppConfiguration) GetDuration(key string, defSecs int) time.Duration {
	if v, ok := ac[key]; ok {
		if val, ok := v.(time.Duration); ok {
			return val
		}
	}
	return time.Duration(defSecs) * time.Second
}

func (ac AppConfiguration) GetString(key string, def string) string {
	if v, ok := ac[key]; ok {
		if val, ok := v.(string); ok {
			return val
		}
	}
	return def
}

// GetBool safely extracts a bool from the configuration, with a default fallback.
func (ac AppConfiguration) GetBool(key string, def bool) bool {
	if v, ok := ac[key]; ok {
		if val, ok := v.(bool); ok {
			return val
		}
	}
	return def
}

// ParseLogLevel parses a string and returns the corresponding logrus.Level.
func ParseLogLevel(logLevel string) logrus.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLogLevel sets the log level for the application.
func SetLogLevel(level logrus.Level) {
	logrus.SetLevel(level)
}

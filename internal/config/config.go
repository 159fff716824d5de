package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// FallbackMock substitutes the deterministic persona reply when the
// provider call fails during chat; FallbackError surfaces the failure.
const (
	FallbackMock  = "mock"
	FallbackError = "error"
)

// Config aggregates every setting the service needs at startup.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Admin    AdminConfig
	Access   AccessConfig
	Chat     ChatConfig
	Database DatabaseConfig
	Metrics  MetricsConfig
}

// Load reads configuration from environment variables. It fails when the
// provider credentials are missing: the service refuses to start without
// a usable generative-language backend.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}
	if !ai.Enabled() {
		return nil, fmt.Errorf("provider credentials missing: set ARK_API_KEY (or ARK_ACCESS_KEY + ARK_SECRET_KEY) and MODEL")
	}

	access, err := loadAccessConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	metricsEnabled, err := parseBoolEnv("METRICS_ENABLED", true)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		AI:       ai,
		Admin:    AdminConfig{Key: getEnvOrDefault("ADMIN_KEY", "dev-admin-key")},
		Access:   access,
		Chat:     chat,
		Database: DatabaseConfig{URL: strings.TrimSpace(os.Getenv("DATABASE_URL"))},
		Metrics:  MetricsConfig{Enabled: metricsEnabled},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	origins := []string{"http://localhost:5173"}
	if raw := strings.TrimSpace(os.Getenv("FRONTEND_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return ServerConfig{Addr: addr, AllowedOrigins: origins}, nil
}

// AIConfig describes the generative-language provider.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the required provider credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds the provider client from this configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("provider credentials or model name missing")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// AdminConfig holds the static admin shared secret.
type AdminConfig struct {
	Key string
}

// AccessConfig governs access-session lifetime. A zero TTL disables expiry.
type AccessConfig struct {
	SessionTTL time.Duration
}

func loadAccessConfig() (AccessConfig, error) {
	raw := strings.TrimSpace(os.Getenv("ACCESS_SESSION_TTL"))
	if raw == "" {
		return AccessConfig{SessionTTL: 12 * time.Hour}, nil
	}

	ttl, err := time.ParseDuration(raw)
	if err != nil {
		return AccessConfig{}, fmt.Errorf("invalid ACCESS_SESSION_TTL value %q: %w", raw, err)
	}
	if ttl < 0 {
		return AccessConfig{}, fmt.Errorf("invalid ACCESS_SESSION_TTL value %q: must not be negative", raw)
	}
	return AccessConfig{SessionTTL: ttl}, nil
}

// ChatConfig selects the provider-failure policy for chat.
type ChatConfig struct {
	FallbackPolicy string
}

func loadChatConfig() (ChatConfig, error) {
	policy := strings.ToLower(getEnvOrDefault("CHAT_FALLBACK_POLICY", FallbackMock))
	switch policy {
	case FallbackMock, FallbackError:
		return ChatConfig{FallbackPolicy: policy}, nil
	default:
		return ChatConfig{}, fmt.Errorf("invalid CHAT_FALLBACK_POLICY value %q: want %q or %q", policy, FallbackMock, FallbackError)
	}
}

// DatabaseConfig points at the optional Postgres backing store. Registries
// stay in process memory when the URL is empty.
type DatabaseConfig struct {
	URL string
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Firebase  FirebaseConfig
	Access    AccessConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Media     MediaConfig
	Mail      MailConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// FirebaseConfig holds the Firebase project used for identity and documents
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string // empty = application default credentials
	EmulatorHost    string // FIRESTORE_EMULATOR_HOST value for local runs
}

// AccessConfig holds the admin allow-list settings
type AccessConfig struct {
	OwnerEmail string
	CacheTTL   time.Duration // 0 = cached until explicitly invalidated
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds admin session token settings
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// MediaConfig selects and configures the product image host
type MediaConfig struct {
	Provider   string // cloudinary, s3
	Timeout    time.Duration
	Cloudinary CloudinaryConfig
	S3         S3Config
}

// CloudinaryConfig holds unsigned upload settings
type CloudinaryConfig struct {
	CloudName    string
	UploadPreset string
	BaseURL      string
}

// S3Config holds S3-compatible bucket settings
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	UsePathStyle    bool
}

// MailConfig holds transactional mail settings
type MailConfig struct {
	Enabled        bool
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	MaxUploadSize         int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool          // Enable stricter rate limiting for auth endpoints
	AuthRateLimitRequests int           // Max auth attempts (default: 10)
	AuthRateLimitWindow   time.Duration // Auth rate limit window (default: 1 minute)
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
	StreamHeartbeat       time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	MetricsEnabled    bool    // Whether to export metrics
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	ExportInterval    time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHOPADMIN_ prefix (e.g., SHOPADMIN_JWT_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopadmin")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SHOPADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Firebase: FirebaseConfig{
			ProjectID:       v.GetString("firebase.project_id"),
			CredentialsFile: v.GetString("firebase.credentials_file"),
			EmulatorHost:    v.GetString("firebase.emulator_host"),
		},
		Access: AccessConfig{
			OwnerEmail: v.GetString("access.owner_email"),
			CacheTTL:   v.GetDuration("access.cache_ttl"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
		},
		Media: MediaConfig{
			Provider: v.GetString("media.provider"),
			Timeout:  v.GetDuration("media.timeout"),
			Cloudinary: CloudinaryConfig{
				CloudName:    v.GetString("media.cloudinary.cloud_name"),
				UploadPreset: v.GetString("media.cloudinary.upload_preset"),
				BaseURL:      v.GetString("media.cloudinary.base_url"),
			},
			S3: S3Config{
				Bucket:          v.GetString("media.s3.bucket"),
				Region:          v.GetString("media.s3.region"),
				Endpoint:        v.GetString("media.s3.endpoint"),
				AccessKeyID:     v.GetString("media.s3.access_key_id"),
				SecretAccessKey: v.GetString("media.s3.secret_access_key"),
				PublicBaseURL:   v.GetString("media.s3.public_base_url"),
				UsePathStyle:    v.GetBool("media.s3.use_path_style"),
			},
		},
		Mail: MailConfig{
			Enabled:        v.GetBool("mail.enabled"),
			SendGridAPIKey: v.GetString("mail.sendgrid_api_key"),
			FromEmail:      v.GetString("mail.from_email"),
			FromName:       v.GetString("mail.from_name"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			MaxUploadSize:         v.GetInt64("http.max_upload_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
			StreamHeartbeat:       v.GetDuration("http.stream_heartbeat"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			ExportInterval:    v.GetDuration("telemetry.export_interval"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shopadmin-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Access.OwnerEmail == "" {
		cfg.Access.OwnerEmail = "sanshraysinghlangeh@gmail.com"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "shopadmin-backend"
	}
	if cfg.JWT.MaxRefreshCount == 0 {
		cfg.JWT.MaxRefreshCount = 50
	}
	if cfg.Media.Provider == "" {
		cfg.Media.Provider = "cloudinary"
	}
	if cfg.Media.Timeout == 0 {
		cfg.Media.Timeout = 30 * time.Second
	}
	if cfg.Media.Cloudinary.UploadPreset == "" {
		cfg.Media.Cloudinary.UploadPreset = "ml_default"
	}
	if cfg.Media.Cloudinary.BaseURL == "" {
		cfg.Media.Cloudinary.BaseURL = "https://api.cloudinary.com"
	}
	if cfg.Media.S3.Region == "" {
		cfg.Media.S3.Region = "us-east-1"
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "Shop Admin"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// WriteTimeout stays zero unless configured so product streams are not cut off
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxUploadSize == 0 {
		cfg.HTTP.MaxUploadSize = 10 << 20 // 10MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 10
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	// CORS origins have no default; cross-origin requests stay blocked until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.HTTP.StreamHeartbeat == 0 {
		cfg.HTTP.StreamHeartbeat = 30 * time.Second
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.ExportInterval == 0 {
		cfg.Telemetry.ExportInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Media.Provider {
	case "cloudinary", "s3":
	default:
		return fmt.Errorf("media.provider must be 'cloudinary' or 's3', got %q", c.Media.Provider)
	}
	if c.Media.Provider == "s3" && c.Media.S3.Bucket == "" {
		return fmt.Errorf("media.s3.bucket is required when media.provider is 's3'")
	}
	if c.Mail.Enabled {
		if c.Mail.SendGridAPIKey == "" {
			return fmt.Errorf("mail.sendgrid_api_key is required when mail is enabled")
		}
		if c.Mail.FromEmail == "" {
			return fmt.Errorf("mail.from_email is required when mail is enabled")
		}
	}
	if c.Access.CacheTTL < 0 {
		return fmt.Errorf("access.cache_ttl cannot be negative")
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("firebase.project_id is required in production")
		}
		if c.Firebase.EmulatorHost != "" {
			return fmt.Errorf("firebase.emulator_host must be empty in production")
		}
		if c.Media.Provider == "cloudinary" && c.Media.Cloudinary.CloudName == "" {
			return fmt.Errorf("media.cloudinary.cloud_name is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// IsProduction reports whether the app runs in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

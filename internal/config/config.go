package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	BucketAvatars  string
	BucketProducts string
	UseSSL         bool
	Region         string
}

type SecurityConfig struct {
	JWTSecret        string
	ActivationSecret string
	UserSessionTTL   time.Duration
	ShopSessionTTL   time.Duration
	WelcomeTTL       time.Duration
}

type MailConfig struct {
	OutboxStream      string
	FromAddress       string
	ActivationBaseURL string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Mail             MailConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("BAZARIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindSecretEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Security.JWTSecret == "" || cfg.Security.ActivationSecret == "" {
		return nil, fmt.Errorf("security.jwtsecret and security.activationsecret are required")
	}

	return &cfg, nil
}

// bindSecretEnv registers the keys that deliberately have no default.
// AutomaticEnv only resolves keys viper already knows about, so without an
// explicit bind these could never be supplied through the environment.
func bindSecretEnv(v *viper.Viper) {
	for _, key := range []string{
		"postgres.dsn",
		"redis.password",
		"storage.endpoint",
		"storage.accesskey",
		"storage.secretkey",
		"security.jwtsecret",
		"security.activationsecret",
		"allowcorsorigins",
	} {
		// only errors on an empty key
		_ = v.BindEnv(key)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.bucketavatars", "bazario-avatars")
	v.SetDefault("storage.bucketproducts", "bazario-products")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.usersessionttl", "72h") // 3 days
	v.SetDefault("security.shopsessionttl", "24h") // 1 day
	v.SetDefault("security.welcomettl", "2160h")   // 90 days

	v.SetDefault("mail.outboxstream", "mail:outbox")
	v.SetDefault("mail.fromaddress", "no-reply@bazario.local")
	v.SetDefault("mail.activationbaseurl", "http://localhost:3000")
}

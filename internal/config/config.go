// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string        `yaml:"env" env-default:"local"`
	StorageConnectionString string        `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string        `yaml:"migrations_path" env-default:"./migrations"`
	PublicOrigin            string        `yaml:"public_origin" env-default:"http://localhost:8080"`
	RabbitMQURL             string        `yaml:"rabbitmq_url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries      int           `yaml:"rabbitmq_max_retries" env-default:"5"`
	RabbitMQRetryDelay      time.Duration `yaml:"rabbitmq_retry_delay" env-default:"2s"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	GRPCServer              `yaml:"grpc_server"`
	Session                 `yaml:"session"`
	OIDC                    `yaml:"oidc"`
	PaymentGateway          `yaml:"payment_gateway"`
	Timeouts                `yaml:"timeouts"`
	Mail                    `yaml:"mail"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// GRPCServer структура для настройки gRPC сервера проверки здоровья
type GRPCServer struct {
	AddressGRPC    string        `yaml:"addressgrpc" env-default:"localhost:9090"`
	HealthInterval time.Duration `yaml:"health_interval" env-default:"15s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// Session структура для настройки пользовательских сессий
type Session struct {
	CookieName    string        `yaml:"cookie_name" env-default:"regs_sid"`
	SessionTTL    time.Duration `yaml:"session_ttl" env-default:"720h"`
	SecureCookies bool          `yaml:"secure_cookies"`
	StateSecret   string        `yaml:"state_secret" env:"SESSION_STATE_SECRET"`
	StateTTL      time.Duration `yaml:"state_ttl" env-default:"10m"`
	BusyTTL       time.Duration `yaml:"busy_ttl" env-default:"30s"`
}

// OIDC структура для настройки внешнего провайдера входа
type OIDC struct {
	IssuerURL    string `yaml:"issuer_url" env-default:"https://accounts.google.com"`
	ClientID     string `yaml:"client_id" env:"OIDC_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"OIDC_CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url" env-default:"http://localhost:8080/auth/callback"`
}

// PaymentGateway структура для настройки платёжного шлюза
type PaymentGateway struct {
	GatewayURL string `yaml:"gateway_url" env:"PAYMENT_GATEWAY_URL"`
}

// Timeouts ограничения времени ожидания внешних вызовов
type Timeouts struct {
	StoreTimeout    time.Duration `yaml:"store" env-default:"5s"`
	GatewayTimeout  time.Duration `yaml:"gateway" env-default:"10s"`
	ProviderTimeout time.Duration `yaml:"provider" env-default:"10s"`
}

// Mail структура для настройки отправки писем
type Mail struct {
	ResendAPIKey string `yaml:"resend_api_key" env:"RESEND_API_KEY"`
	FromEmail    string `yaml:"from_email" env-default:"noreply@regscoffeehouse.com"`
	FromName     string `yaml:"from_name" env-default:"Reg's Coffee House"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг, сгенерированный из файла по пути CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load читает конфиг из файла и переменных окружения.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"PublicOrigin: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"GRPCServer:\n"+
			"  Address: %s\n"+
			"Session:\n"+
			"  CookieName: %s\n"+
			"  TTL: %s\n"+
			"OIDC:\n"+
			"  Issuer: %s\n"+
			"  RedirectURL: %s\n"+
			"Timeouts:\n"+
			"  Store: %s\n"+
			"  Gateway: %s\n"+
			"  Provider: %s\n"+
			"RabbitMQ:\n"+
			"  MaxRetries: %d\n"+
			"  RetryDelay: %s\n",
		c.Env,
		c.PublicOrigin,
		c.AddressRedis,
		c.DB,
		c.MaxRetries,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressGRPC,
		c.CookieName,
		c.SessionTTL,
		c.IssuerURL,
		c.RedirectURL,
		c.StoreTimeout,
		c.GatewayTimeout,
		c.ProviderTimeout,
		c.RabbitMQMaxRetries,
		c.RabbitMQRetryDelay,
	)
}

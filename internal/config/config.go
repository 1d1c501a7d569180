package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

type ProductService struct {
	BaseURL string        `yaml:"PRODUCT_SERVICE_URL" env:"PRODUCT_SERVICE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"PRODUCT_SERVICE_TIMEOUT" env:"PRODUCT_SERVICE_TIMEOUT" env-default:"10s"`
}

type PayinProvider struct {
	BaseURL         string        `yaml:"PAYIN_API_URL" env:"PAYIN_API_URL" env-required:"true"`
	APIKey          string        `yaml:"PAYIN_API_KEY" env:"PAYIN_API_KEY" env-required:"true"`
	USDCToCOPRate   string        `yaml:"USDC_TO_COP_RATE" env:"USDC_TO_COP_RATE" env-default:"4000.0"`
	TokenSymbol     string        `yaml:"PAYIN_TOKEN_SYMBOL" env:"PAYIN_TOKEN_SYMBOL" env-default:"USDC"`
	TokenBlockchain string        `yaml:"PAYIN_TOKEN_BLOCKCHAIN" env:"PAYIN_TOKEN_BLOCKCHAIN" env-default:"POLYGON"`
	Timeout         time.Duration `yaml:"PAYIN_TIMEOUT" env:"PAYIN_TIMEOUT" env-default:"15s"`
}

type RedisConnect struct {
	Enabled  bool   `yaml:"REDIS_ENABLED" env:"REDIS_ENABLED" env-default:"false"`
	Addr     string `yaml:"REDIS_ADDR" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"15s"`
}

type Config struct {
	Env            string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer     `yaml:"http_server"`
	ProductService ProductService `yaml:"product_service"`
	PayinProvider  PayinProvider  `yaml:"payin_provider"`
	RedisConnect   RedisConnect   `yaml:"redis"`
	RateConfig     RateConfig     `yaml:"rateConfig"`
}

func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			log.Fatal("Config path is not set")
		}

	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

func LoadConfigFromPath(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	return &cfg, nil
}

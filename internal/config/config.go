package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Services struct {
	AuthURL  string `yaml:"AUTH_URL" env:"AUTH_URL" env-default:"http://localhost:8080"`
	HommeURL string `yaml:"HOMME_URL" env:"HOMME_URL" env-default:"http://localhost:8080"`
	FemmeURL string `yaml:"FEMME_URL" env:"FEMME_URL" env-default:"http://localhost:8080"`
	MLURL    string `yaml:"ML_URL" env:"ML_URL" env-default:"http://localhost:8000"`
}

type HTTPClient struct {
	Timeout time.Duration `yaml:"TIMEOUT" env:"HTTP_TIMEOUT" env-default:"10s"`
}

type Storage struct {
	Dir string `yaml:"DIR" env:"STORAGE_DIR" env-default:""`
}

type Browse struct {
	SampleRate float64 `yaml:"SAMPLE_RATE" env:"SAMPLE_RATE" env-default:"0.2"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"OTLP_ENDPOINT" env:"OTLP_ENDPOINT" env-default:""`
}

type Config struct {
	Env       string    `yaml:"env" env:"ENV" env-default:"local"`
	Services  Services  `yaml:"services"`
	HTTP      HTTPClient `yaml:"http"`
	Storage   Storage   `yaml:"storage"`
	Browse    Browse    `yaml:"browse"`
	Telemetry Telemetry `yaml:"telemetry"`
}

func MustLoad() *Config {

	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

	}

	var cfg Config

	// Without a config file the environment plus defaults is enough;
	// every field has a usable default for the local gateway setup.
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("can not read config from environment: %s", err.Error())
		}

		applyStorageDefault(&cfg)

		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	applyStorageDefault(&cfg)

	return &cfg
}

func applyStorageDefault(cfg *Config) {
	if cfg.Storage.Dir != "" {
		return
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	cfg.Storage.Dir = home + string(os.PathSeparator) + ".storefront"
}

package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is everything the client needs to reach the hosted backend.
// Priority: ENV > YAML > defaults. The YAML path comes from CONFIG_PATH
// (fallback "./config.yaml"); a missing fallback file means ENV + defaults.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Log     LogConfig     `yaml:"log"`

	// SessionFile holds the access token between CLI invocations.
	SessionFile string `yaml:"session_file" env:"PAINMAP_SESSION_FILE" env-default:".painmap-session"`
	Timezone    string `yaml:"timezone"     env:"TZ"                   env-default:"UTC"`
}

type BackendConfig struct {
	URL     string `yaml:"url"     env:"PAINMAP_BACKEND_URL" env-default:"http://localhost:8090"`
	AnonKey string `yaml:"anon_key" env:"PAINMAP_ANON_KEY"   env-default:"local-dev-anon-key"`
	Bucket  string `yaml:"bucket"  env:"PAINMAP_BUCKET"      env-default:"pain-images"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"PAINMAP_LOG_LEVEL" env-default:"info"`
}

func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	return &cfg, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/svazquez/biblioteca-service/pkg/auth"
	"github.com/svazquez/biblioteca-service/pkg/logger"
	"github.com/svazquez/biblioteca-service/pkg/oauth"
	"github.com/svazquez/biblioteca-service/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

type Config struct {
	Server   HTTPServer      `yaml:"server"`
	Database postgres.Config `yaml:"database"`
	JWT      auth.Config     `yaml:"jwt"`
	OAuth    oauth.Config    `yaml:"oauth"`
	Log      logger.Log      `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	redacted := cfg
	redacted.JWT.Key = "***"
	redacted.Database.Password = "***"
	redacted.OAuth.ClientSecret = "***"
	jscfg, _ := json.MarshalIndent(redacted, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host               string
		Port               string
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine     string // postgres | sqlite
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	Config struct {
		Env      string // DEV (default), TEST, QA, PROD
		Debug    bool
		TestMode bool
		Build    string

		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromName  string
		DefaultFromEmail string

		SendgridAPIKey string
		RollbarToken   string

		Server   ServerConfig
		Database DatabaseConfig
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// ReplyFrom is the address outbound agent replies are sent from.
func (c *Config) ReplyFrom() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromEmail}
}

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables prefixed with the env name.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("env", "DEV")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Collegia")
	v.SetDefault("secretKey", "x#9e$ystv2-g&1^nq(jpr!k+_d84mz0&5u7@wfc3)lhba6iop")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromName", "Aju Agency")
	v.SetDefault("defaultFromEmail", "noreply@ajuagency.in")
	v.SetDefault("sendgridAPIKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "collegia")
	v.SetDefault("database.user", "collegia")
	v.SetDefault("database.password", "")
	v.SetDefault("database.disableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.Set("env", env)
	if env == "TEST" {
		v.Set("testMode", true)
		v.Set("database.engine", "sqlite")
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

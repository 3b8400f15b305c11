package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	env_utils "zidotask/internal/util/env"
	"zidotask/internal/util/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

type EnvVariables struct {
	IsTesting       bool
	DatabaseDsn     string            `env:"DATABASE_DSN"         required:"true"`
	EnvMode         env_utils.EnvMode `env:"ENV_MODE"             required:"true"`
	BackendRootPath string            `env:"BACKEND_ROOT_PATH"`
	ServerPort      string            `env:"SERVER_PORT"          env-default:"4005"`
	// links handed out to users (invitations, OAuth redirects)
	AppBaseURL string `env:"APP_BASE_URL"         required:"true"`
	// cache
	ValkeyHost     string `env:"VALKEY_HOST"          required:"true"`
	ValkeyPort     string `env:"VALKEY_PORT"          required:"true"`
	ValkeyUsername string `env:"VALKEY_USERNAME"      required:"false"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"      required:"false"`
	ValkeyIsSsl    bool   `env:"VALKEY_IS_SSL"        required:"true"`
	// gitea oauth
	GiteaURL          string `env:"GITEA_URL"            required:"false"`
	GiteaClientID     string `env:"GITEA_CLIENT_ID"      required:"false"`
	GiteaClientSecret string `env:"GITEA_CLIENT_SECRET"  required:"false"`
	// lifetimes
	InvitationTTLHours int `env:"INVITATION_TTL_HOURS" env-default:"168"`
	SessionTTLHours    int `env:"SESSION_TTL_HOURS"    env-default:"720"`
}

func (e EnvVariables) InvitationTTL() time.Duration {
	return time.Duration(e.InvitationTTLHours) * time.Hour
}

func (e EnvVariables) SessionTTL() time.Duration {
	return time.Duration(e.SessionTTLHours) * time.Hour
}

func (e EnvVariables) IsGiteaEnabled() bool {
	return e.GiteaURL != "" && e.GiteaClientID != "" && e.GiteaClientSecret != ""
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

func loadEnvVariables() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	backendRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(backendRoot, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(backendRoot)
		if parent == backendRoot {
			break
		}

		backendRoot = parent
	}

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(backendRoot, ".env"),
	}

	var loaded bool
	for _, path := range envPaths {
		log.Info("Trying to load .env", "path", path)
		if err := godotenv.Load(path); err == nil {
			log.Info("Successfully loaded .env", "path", path)
			loaded = true
			break
		}
	}

	if !loaded {
		log.Error("Error loading .env file: could not find .env in any location")
		os.Exit(1)
	}

	err = cleanenv.ReadEnv(&env)
	if err != nil {
		log.Error("Configuration could not be loaded", "error", err)
		os.Exit(1)
	}

	if env.BackendRootPath == "" {
		env.BackendRootPath = backendRoot
	}

	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			env.IsTesting = true
			break
		}
	}

	if env.DatabaseDsn == "" {
		log.Error("DATABASE_DSN is empty")
		os.Exit(1)
	}

	if !env.EnvMode.IsValid() {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}
	log.Info("ENV_MODE loaded", "mode", env.EnvMode)

	if env.AppBaseURL == "" {
		log.Error("APP_BASE_URL is empty")
		os.Exit(1)
	}
	env.AppBaseURL = strings.TrimRight(env.AppBaseURL, "/")

	if env.ValkeyHost == "" {
		log.Error("VALKEY_HOST is empty")
		os.Exit(1)
	}
	if env.ValkeyPort == "" {
		log.Error("VALKEY_PORT is empty")
		os.Exit(1)
	}

	if env.InvitationTTLHours <= 0 {
		log.Error("INVITATION_TTL_HOURS must be positive", "value", env.InvitationTTLHours)
		os.Exit(1)
	}
	if env.SessionTTLHours <= 0 {
		log.Error("SESSION_TTL_HOURS must be positive", "value", env.SessionTTLHours)
		os.Exit(1)
	}

	if !env.IsGiteaEnabled() {
		log.Warn("Gitea OAuth is not configured, external sign-in is disabled")
	}

	log.Info("Environment variables loaded successfully!")
}

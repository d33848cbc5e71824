package core

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (local; default), TEST, QA, PROD
		AppName  string
		Build    string
		WorkDir  string

		SecretKey    string
		RollbarToken string

		Console   ConsoleConfig
		Backends  BackendsConfig
		Refresh   RefreshConfig
		Dismissal DismissalConfig
		LocalDB   LocalDBConfig
	}

	// ConsoleConfig configures the localhost API the UI shell polls.
	ConsoleConfig struct {
		Addr                      string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	// BackendsConfig holds the base URLs of the remote Heronix services.
	BackendsConfig struct {
		Auth      string
		Admin     string
		Polls     string
		Dismissal string
		EdGames   string
		Talk      string
		Timeout   time.Duration
	}

	RefreshConfig struct {
		Dismissal time.Duration
		Health    time.Duration
		Sync      time.Duration
	}

	// DismissalConfig carries the per-bus seat capacities for the load
	// indicators, keyed by bus number.
	DismissalConfig struct {
		BusCapacities map[string]int
	}

	LocalDBConfig struct {
		Path string
	}
)

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Heronix Teacher Console")
	conf.SetDefault("secretKey", "x7dh=w3c&#1q(r8f+ne_5t^bku!0m*ajy$9vgz%4ls2po6i-")
	conf.SetDefault("consoleAddr", "127.0.0.1:8750")
	conf.SetDefault("jwtExpirationDelta", 10*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 1*time.Hour)
	conf.SetDefault("authBaseURL", "http://localhost:9000")
	conf.SetDefault("adminBaseURL", "http://localhost:9001")
	conf.SetDefault("pollsBaseURL", "http://localhost:9002")
	conf.SetDefault("dismissalBaseURL", "http://localhost:9003")
	conf.SetDefault("edgamesBaseURL", "http://localhost:9004")
	conf.SetDefault("talkBaseURL", "http://localhost:9005")
	conf.SetDefault("backendTimeout", 10*time.Second)
	conf.SetDefault("dismissalRefreshInterval", 15*time.Second)
	conf.SetDefault("healthCheckInterval", 30*time.Second)
	conf.SetDefault("syncInterval", 60*time.Second)
	conf.SetDefault("localDBPath", filepath.Join(Getwd(), "teacherdesk.db"))
	conf.SetDefault("busCapacities", "") // "12=48,7=54"

	env := os.Getenv("ENV")
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:        conf.GetBool("debug"),
		TestMode:     testMode,
		Env:          env,
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		WorkDir:      Getwd(),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		Console: ConsoleConfig{
			Addr:                      conf.GetString("consoleAddr"),
			JWTExpirationDelta:        conf.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
		},
		Backends: BackendsConfig{
			Auth:      conf.GetString("authBaseURL"),
			Admin:     conf.GetString("adminBaseURL"),
			Polls:     conf.GetString("pollsBaseURL"),
			Dismissal: conf.GetString("dismissalBaseURL"),
			EdGames:   conf.GetString("edgamesBaseURL"),
			Talk:      conf.GetString("talkBaseURL"),
			Timeout:   conf.GetDuration("backendTimeout"),
		},
		Refresh: RefreshConfig{
			Dismissal: conf.GetDuration("dismissalRefreshInterval"),
			Health:    conf.GetDuration("healthCheckInterval"),
			Sync:      conf.GetDuration("syncInterval"),
		},
		Dismissal: DismissalConfig{
			BusCapacities: parseBusCapacities(conf.GetString("busCapacities")),
		},
		LocalDB: LocalDBConfig{
			Path: conf.GetString("localDBPath"),
		},
	}
}

// parseBusCapacities decodes "12=48,7=54" into {"12": 48, "7": 54}.
// Malformed entries are skipped.
func parseBusCapacities(s string) map[string]int {
	capacities := make(map[string]int)
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		seats, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		capacities[strings.TrimSpace(parts[0])] = seats
	}
	return capacities
}

func (conf *Config) Validate() error {
	return vala.BeginValidation().Validate(
		vala.StringNotEmpty(conf.AppName, "appName"),
		vala.StringNotEmpty(conf.SecretKey, "secretKey"),
		vala.StringNotEmpty(conf.Console.Addr, "consoleAddr"),
		vala.StringNotEmpty(conf.Backends.Auth, "authBaseURL"),
		vala.StringNotEmpty(conf.Backends.Admin, "adminBaseURL"),
		vala.StringNotEmpty(conf.Backends.Polls, "pollsBaseURL"),
		vala.StringNotEmpty(conf.Backends.Dismissal, "dismissalBaseURL"),
		vala.StringNotEmpty(conf.LocalDB.Path, "localDBPath"),
		vala.GreaterThan(int(conf.Refresh.Dismissal), 0, "dismissalRefreshInterval"),
		vala.GreaterThan(int(conf.Refresh.Health), 0, "healthCheckInterval"),
	).Check()
}

package core

import (
	"log"
	"net"
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
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		LoginRatePerMinute        int
	}

	DatabaseConfig struct {
		Driver        string // postgres (lib/pq) | pgx
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Name          string
		DisableTLS    bool
	}

	// LimitsConfig holds the annual service quotas enforced per client.
	LimitsConfig struct {
		CustomMakeCount        int
		CustomMakeCost         int64
		RepairCost             int64
		MaterialCostRatio      float64 // estimate used when a job has no material cost recorded
		LegacyApplicationCount bool    // also count custom_make applications without a job row
		CustomMakeSubCategory  string  // restricts the application count, empty counts every sub-category
		ReportingYear          int     // 0 means the current calendar year
	}

	NotificationsConfig struct {
		DigestSchedule string // cron expression, empty disables the daily digest
	}

	Config struct {
		AppName          string
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		SecretKey        string
		RollbarToken     string
		SendgridApiKey   string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		Server           ServerConfig
		Database         DatabaseConfig
		Limits           LimitsConfig
		Notifications    NotificationsConfig
	}
)

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, db.Port)
}

// NewConfig loads the configuration from defaults, the environment and an optional
// `config/.env.<env>` file. Environment variables are prefixed with the env name (DEV_, TEST_, ...).
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "co-AT")
	v.SetDefault("secretKey", "k7d2-ax!mq0$w+9=zr&ubn(c!p)#*e4(#te1h^$kvgm5qwe")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("defaultFromName", "co-AT")

	v.SetDefault("serverHost", "0.0.0.0:8000")
	v.SetDefault("serverDebugHost", "0.0.0.0:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 8*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 7*24*time.Hour)
	v.SetDefault("loginRatePerMinute", 10)

	v.SetDefault("dbDriver", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbUser", "coat")
	v.SetDefault("dbPassword", "coat")
	v.SetDefault("dbAdminUser", "postgres")
	v.SetDefault("dbAdminPassword", "postgres")
	v.SetDefault("dbName", "coat")
	v.SetDefault("dbDisableTLS", true)

	v.SetDefault("limitCustomMakeCount", 2)
	v.SetDefault("limitCustomMakeCost", int64(100000))
	v.SetDefault("limitRepairCost", int64(100000))
	v.SetDefault("limitMaterialCostRatio", 0.7)
	v.SetDefault("limitLegacyApplicationCount", true)
	v.SetDefault("limitCustomMakeSubCategory", "")
	v.SetDefault("limitReportingYear", 0)

	v.SetDefault("digestSchedule", "0 7 * * *")

	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:         v.GetString("appName"),
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		SecretKey:       v.GetString("secretKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("defaultFromName"),
			Address: v.GetString("defaultFromEmail"),
		},
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
			LoginRatePerMinute:        v.GetInt("loginRatePerMinute"),
		},
		Database: DatabaseConfig{
			Driver:        v.GetString("dbDriver"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			Name:          v.GetString("dbName"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Limits: LimitsConfig{
			CustomMakeCount:        v.GetInt("limitCustomMakeCount"),
			CustomMakeCost:         v.GetInt64("limitCustomMakeCost"),
			RepairCost:             v.GetInt64("limitRepairCost"),
			MaterialCostRatio:      v.GetFloat64("limitMaterialCostRatio"),
			LegacyApplicationCount: v.GetBool("limitLegacyApplicationCount"),
			CustomMakeSubCategory:  v.GetString("limitCustomMakeSubCategory"),
			ReportingYear:          v.GetInt("limitReportingYear"),
		},
		Notifications: NotificationsConfig{
			DigestSchedule: v.GetString("digestSchedule"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: no env lookups, test mode on.
func NewTestConfig() *Config {
	return &Config{
		AppName:          "co-AT",
		Env:              "TEST",
		Build:            "test",
		Debug:            false,
		TestMode:         true,
		SecretKey:        "test-secret",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "co-AT", Address: "noreply@localhost"},
		Server: ServerConfig{
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
			LoginRatePerMinute:        1000,
		},
		Limits: LimitsConfig{
			CustomMakeCount:        2,
			CustomMakeCost:         100000,
			RepairCost:             100000,
			MaterialCostRatio:      0.7,
			LegacyApplicationCount: true,
		},
	}
}

package core

import (
	"fmt"
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
		Host                      string
		Port                      int
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          int
		DisableTLS    bool
	}

	// StorageConfig selects the record store backend. "csv" keeps every
	// collection in flat files under DataDir (settings under StateDir);
	// "postgres" uses DatabaseConfig.
	StorageConfig struct {
		Engine   string
		DataDir  string
		StateDir string
	}

	Config struct {
		Debug             bool
		TestMode          bool
		Env               string
		Build             string
		AppName           string
		SchoolName        string
		SecretKey         string
		CounselorPassword string
		FromEmail         mail.Address
		SendgridApiKey    string
		RollbarToken      string
		WorkDir           string

		// schedule slot limits; these also shape the schedules CSV header
		MaxAcademicCourses int
		MaxElectiveChoices int

		Server   ServerConfig
		Database DatabaseConfig
		Storage  StorageConfig
	}
)

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewConfig loads the app configuration from config/.env.<env> (if present)
// and the environment, falling back to dev defaults.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("appName", "Courseflow")
	v.SetDefault("schoolName", "Acadiana Renaissance Charter Academy")
	v.SetDefault("secretKey", "5up3r-53cr3t-k3y-ch4ng3-m3-1n-pr0d")
	v.SetDefault("counselorPassword", "admin")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("build", "dev")

	v.SetDefault("maxAcademicCourses", 7)
	v.SetDefault("maxElectiveChoices", 5)

	v.SetDefault("serverHost", "0.0.0.0")
	v.SetDefault("serverPort", 8000)
	v.SetDefault("serverDebugHost", "0.0.0.0:9000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 10*time.Minute)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("storageEngine", "csv")
	v.SetDefault("dataDir", "data")
	v.SetDefault("stateDir", "state")

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "courseflow")
	v.SetDefault("databaseUser", "courseflow")
	v.SetDefault("databasePassword", "courseflow")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", 5432)
	v.SetDefault("databaseDisableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:             v.GetBool("debug"),
		TestMode:          env == "TEST",
		Env:               env,
		Build:             v.GetString("build"),
		AppName:           v.GetString("appName"),
		SchoolName:        v.GetString("schoolName"),
		SecretKey:         v.GetString("secretKey"),
		CounselorPassword: v.GetString("counselorPassword"),
		FromEmail:         mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridApiKey:    v.GetString("sendgridApiKey"),
		RollbarToken:      v.GetString("rollbarToken"),
		WorkDir:           wd,

		MaxAcademicCourses: v.GetInt("maxAcademicCourses"),
		MaxElectiveChoices: v.GetInt("maxElectiveChoices"),

		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Port:                      v.GetInt("serverPort"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetInt("databasePort"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
		Storage: StorageConfig{
			Engine:   v.GetString("storageEngine"),
			DataDir:  filepath.Join(wd, v.GetString("dataDir")),
			StateDir: filepath.Join(wd, v.GetString("stateDir")),
		},
	}
}

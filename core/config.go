package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf holds the application configuration. It is loaded once at startup
// from defaults, an optional .env file and ENV-prefixed environment variables.
var Conf *Config

type Config struct {
	Debug     bool
	TestMode  bool
	Env       string
	AppName   string
	SecretKey string
	WorkDir   string

	Server struct {
		Addr               string
		JWTExpirationDelta time.Duration
	}

	// Backend is the external content service that persists and serves
	// all record types. All media paths it returns are relative to BaseURL.
	Backend struct {
		BaseURL string
		Timeout time.Duration
	}

	Newsletter struct {
		FromEmail  string
		Recipients []string
	}

	SendgridAPIKey string
	RollbarToken   string
}

func init() {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "PAC Site")
	v.SetDefault("secretKey", "w3lc0me-t0-the-pl@netarium-ch@nge-me")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("jwtExpirationDelta", 12*time.Hour)
	v.SetDefault("backendBaseUrl", "http://localhost:5000")
	v.SetDefault("backendTimeout", 30*time.Second)
	v.SetDefault("newsletterFromEmail", "pactimes@localhost")
	v.SetDefault("newsletterRecipients", []string{})

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:          v.GetBool("debug"),
		TestMode:       v.GetBool("testMode"),
		Env:            env,
		AppName:        v.GetString("appName"),
		SecretKey:      v.GetString("secretKey"),
		WorkDir:        wd,
		SendgridAPIKey: v.GetString("sendgridApiKey"),
		RollbarToken:   v.GetString("rollbarToken"),
	}
	conf.Server.Addr = v.GetString("serverAddr")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")
	conf.Backend.BaseURL = strings.TrimRight(v.GetString("backendBaseUrl"), "/")
	conf.Backend.Timeout = v.GetDuration("backendTimeout")
	conf.Newsletter.FromEmail = v.GetString("newsletterFromEmail")
	conf.Newsletter.Recipients = v.GetStringSlice("newsletterRecipients")
	Conf = conf
}

func getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd: %v", err)
	}
	return wd
}

package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Viper is a Config implementation backed by github.com/spf13/viper.
//
// Environment variables override file values: "modules.otp.ttl_minutes" is read
// from MODULES_OTP_TTL_MINUTES when set.
type Viper struct {
	v *viper.Viper
}

// Defaults are applied before the config file is read.
var Defaults = map[string]any{
	"app.name":                                  "gocare",
	"app.server.http.address":                   ":8080",
	"app.server.max_goroutine":                  100,
	"app.startup_timeout_seconds":               30,
	"database.pool.max_conns":                   10,
	"database.pool.min_conns":                   1,
	"database.pool.max_conn_lifetime_seconds":   3600,
	"database.pool.max_conn_idle_seconds":       300,
	"database.pool.health_check_period_seconds": 60,
	"instrument.log_level":                      "info",
	"instrument.log_mask_fields":                "otp,code,authorization,password",
	"messaging.driver":                          "memory",
	"modules.otp.enabled":                       true,
	"modules.otp.store":                         "redis",
	"modules.otp.ttl_minutes":                   10,
	"modules.otp.max_attempts":                  3,
	"modules.otp.expose_code_in_response":       false,
	"modules.otp.resend_cooldown_seconds":       0,
	"modules.otp.sweep_interval_seconds":        60,
	"modules.otp.idempotency_ttl_seconds":       60,
	"modules.notification.enabled":              true,
	"modules.notification.clinic_name":          "Dr. Rohit's Healthcare",
	"sms.default_country_code":                  "91",
	"sms.timeout_seconds":                       10,
}

// NewViper loads configuration from the given file path and returns a Viper-backed Config.
//
// A .env file next to the working directory is loaded first when present. The
// config file type is inferred by Viper from the filename extension.
func NewViper(pathFile string) (*Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v := newViper()

	filename := path.Base(pathFile)
	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(strings.TrimSuffix(filename, path.Ext(filename)))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			slog.Error("config reload failed", "path", pathFile, "err", err)
			return
		}
		slog.Info("config success reloaded", "path", pathFile)
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory and returns a Viper-backed Config.
// configType should be a format supported by Viper (e.g. "yaml", "json").
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	v := newViper()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool { return vc.v.GetBool(key) }

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string { return vc.v.GetString(key) }

// GetInt returns the value for key as int.
func (vc *Viper) GetInt(key string) int { return vc.v.GetInt(key) }

// GetInt32 returns the value for key as int32.
func (vc *Viper) GetInt32(key string) int32 { return vc.v.GetInt32(key) }

// GetInt64 returns the value for key as int64.
func (vc *Viper) GetInt64(key string) int64 { return vc.v.GetInt64(key) }

// GetFloat64 returns the value for key as float64.
func (vc *Viper) GetFloat64(key string) float64 { return vc.v.GetFloat64(key) }

// GetSecond returns the value for key as seconds.
func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

// GetMinute returns the value for key as minutes.
func (vc *Viper) GetMinute(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Minute
}

// GetArray returns the value for key as a list.
//
// YAML sequences are returned as-is; scalars are split by commas.
func (vc *Viper) GetArray(key string) []string {
	var items []string
	if raw, ok := vc.v.Get(key).([]any); ok {
		items = lo.Map(raw, func(item any, _ int) string {
			s, _ := item.(string)
			return s
		})
	} else {
		items = strings.Split(vc.v.GetString(key), ",")
	}

	return lo.Compact(lo.Map(items, func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	return nil
}

// Package config loads higgsfield.Config from defaults, an optional file
// and the environment.
//
// Precedence, highest first: environment, config file, defaults.
// Environment keys use the AIWORKER_ prefix with dots replaced by
// underscores (AIWORKER_WORKER_POLL_TIMEOUT). REDIS_URL is honoured as a
// fallback for redis.url.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	higgsfield "github.com/NitinDahiya199/higgsfield.ai"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AIWORKER"

// Load reads configuration. When path is empty, aiworker.{yaml,json,toml}
// is looked up in the working directory and /etc/aiworker; a missing file
// is not an error. An explicit path must exist.
func Load(path string) (*higgsfield.Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("redis.url", EnvPrefix+"_REDIS_URL", "REDIS_URL"); err != nil {
		return nil, fmt.Errorf("config: bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("aiworker")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/aiworker")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg higgsfield.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *higgsfield.Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := higgsfield.DefaultConfig()

	v.SetDefault("redis.url", d.Redis.URL)
	v.SetDefault("redis.connect_timeout", d.Redis.ConnectTimeout)
	v.SetDefault("redis.op_timeout", d.Redis.OpTimeout)

	v.SetDefault("worker.key_prefix", d.Worker.KeyPrefix)
	v.SetDefault("worker.queues", d.Worker.Queues)
	v.SetDefault("worker.poll_timeout", d.Worker.PollTimeout)
	v.SetDefault("worker.error_backoff", d.Worker.ErrorBackoff)
	v.SetDefault("worker.handler_timeout", d.Worker.HandlerTimeout)
	v.SetDefault("worker.shutdown_timeout", d.Worker.ShutdownTimeout)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

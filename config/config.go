/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"dirpx.dev/denvelope/code"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every variable: DENVELOPE_ADDR, DENVELOPE_LOG_LEVEL...
const EnvPrefix = "DENVELOPE"

// Environment names.
const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// Config is the service configuration.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"envelope-demo" validate:"required"`
	Env         string `envconfig:"ENV" default:"dev" validate:"oneof=dev staging prod"`
	Addr        string `envconfig:"ADDR" default:":8080" validate:"required"`
	// GRPCAddr enables the gRPC listener when set.
	GRPCAddr string `envconfig:"GRPC_ADDR"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000" validate:"dive,required"`

	LogLevel     string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`
	LogFormat    string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`
	LogWarnStack bool   `envconfig:"LOG_WARN_STACK" default:"false"`

	// ExposeInternal keeps details of INTERNAL failures in responses.
	ExposeInternal bool `envconfig:"EXPOSE_INTERNAL" default:"false"`

	// StatusOverrides pins HTTP statuses per code, as "CODE:STATUS" pairs:
	// DENVELOPE_STATUS_OVERRIDES=CANCELED:499,NOT_FOUND.USER:410
	StatusOverrides []string `envconfig:"STATUS_OVERRIDES"`

	// RedisURL enables idempotent replay when set.
	RedisURL  string        `envconfig:"REDIS_URL" validate:"omitempty,url"`
	ReplayTTL time.Duration `envconfig:"REPLAY_TTL" default:"24h" validate:"min=1s"`

	// ErrorDomain is the ErrorInfo domain on gRPC statuses.
	ErrorDomain string `envconfig:"ERROR_DOMAIN" default:"denvelope.dirpx.dev" validate:"required"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"min=1s"`
}

// Load reads the environment, applies defaults and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and the override list.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.HTTPOverrides(); err != nil {
		return err
	}
	return nil
}

// IsProd reports whether the service runs in production.
func (c *Config) IsProd() bool {
	return strings.EqualFold(c.Env, EnvProd)
}

// ReplayEnabled reports whether a replay store is configured.
func (c *Config) ReplayEnabled() bool {
	return c.RedisURL != ""
}

// HTTPOverrides parses StatusOverrides. Codes are normalized.
func (c *Config) HTTPOverrides() (map[code.Code]int, error) {
	if len(c.StatusOverrides) == 0 {
		return nil, nil
	}
	out := make(map[code.Code]int, len(c.StatusOverrides))
	for _, pair := range c.StatusOverrides {
		raw, status, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("invalid status override %q: want CODE:STATUS", pair)
		}
		cd, err := code.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid status override %q: %w", pair, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(status))
		if err != nil || n < 100 || n > 599 {
			return nil, fmt.Errorf("invalid status override %q: bad HTTP status", pair)
		}
		out[cd] = n
	}
	return out, nil
}

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

package config

import (
	"testing"
	"time"

	"dirpx.dev/denvelope/code"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "envelope-demo", cfg.ServiceName)
	require.Equal(t, EnvDev, cfg.Env)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.GRPCAddr)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	require.Equal(t, 24*time.Hour, cfg.ReplayTTL)
	require.False(t, cfg.ReplayEnabled())
	require.False(t, cfg.IsProd())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DENVELOPE_ENV", "prod")
	t.Setenv("DENVELOPE_ADDR", ":9090")
	t.Setenv("DENVELOPE_LOG_FORMAT", "console")
	t.Setenv("DENVELOPE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("DENVELOPE_REPLAY_TTL", "1h")
	t.Setenv("DENVELOPE_CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("DENVELOPE_STATUS_OVERRIDES", "canceled:499,NOT_FOUND.USER:410")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsProd())
	require.True(t, cfg.ReplayEnabled())
	require.Equal(t, time.Hour, cfg.ReplayTTL)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)

	overrides, err := cfg.HTTPOverrides()
	require.NoError(t, err)
	require.Equal(t, map[code.Code]int{code.Canceled: 499, "NOT_FOUND.USER": 410}, overrides)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"env":          {"DENVELOPE_ENV", "qa"},
		"log level":    {"DENVELOPE_LOG_LEVEL", "loud"},
		"redis url":    {"DENVELOPE_REDIS_URL", "not a url"},
		"replay ttl":   {"DENVELOPE_REPLAY_TTL", "10ms"},
		"override":     {"DENVELOPE_STATUS_OVERRIDES", "CANCELED"},
		"status":       {"DENVELOPE_STATUS_OVERRIDES", "CANCELED:42"},
		"code":         {"DENVELOPE_STATUS_OVERRIDES", "1X:400"},
		"bad duration": {"DENVELOPE_SHUTDOWN_TIMEOUT", "soon"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
		})
	}
}

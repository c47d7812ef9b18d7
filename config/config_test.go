package config

import (
	"strings"
	"testing"
	"time"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"JWT_SECRET_KEY": "secret",
		"DATABASE_URL":   "postgres://localhost/olympics",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorageDriver != StorageDriverPostgres || cfg.ServerPort != 8080 {
		t.Errorf("got driver %q port %d", cfg.StorageDriver, cfg.ServerPort)
	}
	if cfg.StandingsRefreshInterval != time.Minute || cfg.DefaultRoundLengthMinutes != 45 || cfg.JWTTTL != 24*time.Hour {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("got origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"JWT_SECRET_KEY":               "secret",
		"STORAGE_DRIVER":               "memory",
		"SERVER_PORT":                  "9090",
		"CORS_ALLOWED_ORIGINS":         "https://a.example,https://b.example",
		"STANDINGS_REFRESH_INTERVAL":   "0s",
		"DEFAULT_ROUND_LENGTH_MINUTES": "30",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorageDriver != StorageDriverMemory || cfg.ServerPort != 9090 || cfg.DefaultRoundLengthMinutes != 30 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.StandingsRefreshInterval != 0 {
		t.Errorf("got interval %s", cfg.StandingsRefreshInterval)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("got origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"missing secret", map[string]string{"JWT_SECRET_KEY": "", "STORAGE_DRIVER": "memory"}, "JWT_SECRET_KEY"},
		{"missing database", map[string]string{"JWT_SECRET_KEY": "s", "DATABASE_URL": "", "STORAGE_DRIVER": "postgres"}, "DATABASE_URL"},
		{"bad driver", map[string]string{"JWT_SECRET_KEY": "s", "STORAGE_DRIVER": "sqlite"}, "STORAGE_DRIVER"},
		{"port range", map[string]string{"JWT_SECRET_KEY": "s", "STORAGE_DRIVER": "memory", "SERVER_PORT": "70000"}, "SERVER_PORT"},
		{"port format", map[string]string{"JWT_SECRET_KEY": "s", "STORAGE_DRIVER": "memory", "SERVER_PORT": "http"}, "parse environment"},
		{"round length", map[string]string{"JWT_SECRET_KEY": "s", "STORAGE_DRIVER": "memory", "DEFAULT_ROUND_LENGTH_MINUTES": "0"}, "DEFAULT_ROUND_LENGTH_MINUTES"},
		{"negative interval", map[string]string{"JWT_SECRET_KEY": "s", "STORAGE_DRIVER": "memory", "STANDINGS_REFRESH_INTERVAL": "-1m"}, "STANDINGS_REFRESH_INTERVAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.vars)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want an error mentioning %s", err, tt.want)
			}
		})
	}
}

package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "standard configuration",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				Database: "testdb",
				SSLMode:  "disable",
			},
			want: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable",
		},
		{
			name: "production configuration",
			cfg: DatabaseConfig{
				Host:     "db.example.com",
				Port:     5433,
				User:     "produser",
				Password: "securepass123",
				Database: "proddb",
				SSLMode:  "require",
			},
			want: "host=db.example.com port=5433 user=produser password=securepass123 dbname=proddb sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ConnectionString(); got != tt.want {
				t.Errorf("DatabaseConfig.ConnectionString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad_RequiresDBPassword(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if _, err := Load(); err == nil {
		t.Error("expected error when DB_PASSWORD is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	os.Setenv("DB_PASSWORD", "testpass")
	t.Cleanup(func() { os.Unsetenv("DB_PASSWORD") })

	if err := InitConfig("test"); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9090 {
		t.Errorf("Server.MetricsPort = %d, want 9090", cfg.Server.MetricsPort)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("Database.SSLMode = %q, want %q", cfg.Database.SSLMode, "disable")
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled = false, want true by default")
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "memory")
	}
	if cfg.Cache.TTLMinutes != 5 {
		t.Errorf("Cache.TTLMinutes = %d, want 5", cfg.Cache.TTLMinutes)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	os.Setenv("DB_PASSWORD", "testpass")
	os.Setenv("SERVER_PORT", "8080")
	os.Setenv("CACHE_BACKEND", "redis")
	t.Cleanup(func() {
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("CACHE_BACKEND")
	})

	if err := InitConfig("test"); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "redis")
	}
}

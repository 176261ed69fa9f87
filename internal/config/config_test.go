package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "postgres" || cfg.Reputation.Spillover != "table" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Network.TickRate != 200*time.Millisecond {
		t.Errorf("TickRate = %v", cfg.Network.TickRate)
	}
	if cfg.Server.StartTime == 0 {
		t.Error("StartTime not set")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	body := `
[database]
driver = "sqlite"
dsn = "var/rep.db"

[reputation]
spillover = "lua"
save_interval_ticks = 10
save_timeout = "2s"

[logging]
format = "json"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "var/rep.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Reputation.Spillover != "lua" || cfg.Reputation.SaveIntervalTicks != 10 {
		t.Errorf("reputation = %+v", cfg.Reputation)
	}
	if cfg.Reputation.SaveTimeout != 2*time.Second {
		t.Errorf("SaveTimeout = %v", cfg.Reputation.SaveTimeout)
	}
	// Untouched keys keep their defaults.
	if cfg.Reputation.QueueSize != 256 || cfg.Logging.Level != "info" {
		t.Errorf("defaults lost: %+v %+v", cfg.Reputation, cfg.Logging)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"driver":    "[database]\ndriver = \"mysql\"\n",
		"spillover": "[reputation]\nspillover = \"magic\"\n",
		"interval":  "[reputation]\nsave_interval_ticks = 0\n",
		"format":    "[logging]\nformat = \"xml\"\n",
		"syntax":    "[database\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

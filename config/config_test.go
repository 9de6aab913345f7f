package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %q", cfg.LogLevel)
	}
	if cfg.AuthTimeoutMS != 2000 {
		t.Errorf("expected AuthTimeoutMS=2000, got %d", cfg.AuthTimeoutMS)
	}
	if cfg.ReconnectDelayMS != 5000 {
		t.Errorf("expected ReconnectDelayMS=5000, got %d", cfg.ReconnectDelayMS)
	}
	if cfg.SocketIOPath != "/socket.io/" {
		t.Errorf("expected SocketIOPath=/socket.io/, got %q", cfg.SocketIOPath)
	}
	if cfg.APIPort != 0 {
		t.Errorf("expected APIPort=0, got %d", cfg.APIPort)
	}
	if cfg.AuthTimeout() != 2*time.Second {
		t.Errorf("expected AuthTimeout()=2s, got %v", cfg.AuthTimeout())
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("GAMESERVER", "https://games.example.org")
	t.Setenv("SECRET", "hunter2")
	t.Setenv("LOGLEVEL", "debug")
	t.Setenv("API_PORT", "9090")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.GameServer != "https://games.example.org" {
		t.Errorf("expected GameServer from env, got %q", cfg.GameServer)
	}
	if cfg.Secret != "hunter2" {
		t.Errorf("expected Secret from env, got %q", cfg.Secret)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug after env override, got %q", cfg.LogLevel)
	}
	if cfg.APIPort != 9090 {
		t.Errorf("expected APIPort=9090 after env override, got %d", cfg.APIPort)
	}
	// Non-overridden fields should remain default
	if cfg.ReconnectDelayMS != 5000 {
		t.Errorf("expected ReconnectDelayMS=5000 (default), got %d", cfg.ReconnectDelayMS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"game_server": "http://from-file", "reconnect_delay_ms": 100, "api_port": 7000}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("API_PORT", "7001")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.GameServer != "http://from-file" {
		t.Errorf("expected GameServer from file, got %q", cfg.GameServer)
	}
	if cfg.ReconnectDelayMS != 100 {
		t.Errorf("expected ReconnectDelayMS=100 from file, got %d", cfg.ReconnectDelayMS)
	}
	if cfg.APIPort != 7001 {
		t.Errorf("expected env to win over file, got APIPort=%d", cfg.APIPort)
	}
}

func TestLoadWithInvalidEnv(t *testing.T) {
	t.Setenv("AUTH_TIMEOUT_MS", "soon")

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for non-numeric AUTH_TIMEOUT_MS")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error without GAMESERVER and SECRET")
	}
	for _, want := range []string{"GAMESERVER", "SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}

	cfg.GameServer = "http://localhost:3000"
	cfg.Secret = "s"
	cfg.AuthTimeoutMS = 0
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "AUTH_TIMEOUT_MS") {
		t.Errorf("expected AUTH_TIMEOUT_MS error, got %v", err)
	}
}

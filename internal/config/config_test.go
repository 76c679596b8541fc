package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved = %q", resolved)
	}
	if cfg.Server.URL != defaultServerURL {
		t.Errorf("server url = %q", cfg.Server.URL)
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
url = "https://recipes.example.com/"

[session]
token = "abc"
user_id = "u1"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.URL != "https://recipes.example.com" {
		t.Errorf("url = %q, want trailing slash trimmed", cfg.Server.URL)
	}
	if cfg.Session.Token != "abc" || cfg.Session.UserID != "u1" {
		t.Errorf("session = %+v", cfg.Session)
	}
	// Unset sections keep their defaults
	if cfg.Data.Dir == "" {
		t.Error("data dir should default")
	}
}

func TestValidateRejectsBadURL(t *testing.T) {
	cfg := Default()
	cfg.Server.URL = "ftp://nope"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Data.Dir = t.TempDir()
	cfg.Session = Session{Token: "tok", UserID: "u2"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, _, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Session.Token != "tok" || loaded.Session.UserID != "u2" {
		t.Errorf("session = %+v", loaded.Session)
	}
}

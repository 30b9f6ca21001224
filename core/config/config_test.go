package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalYAML = `
admin_bot:
  token: admin-token
user_bot:
  token: user-token
  username: "@FillBot"
database:
  host: localhost
  port: "5432"
  user: u
  password: p
  name: d
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AdminBot.RunMode != RunModeLongpoll || cfg.UserBot.RunMode != RunModeLongpoll {
		t.Fatalf("run modes = %q / %q", cfg.AdminBot.RunMode, cfg.UserBot.RunMode)
	}
	if cfg.UserBot.Username != "FillBot" {
		t.Fatalf("username = %q, expected @ stripped", cfg.UserBot.Username)
	}
	if cfg.Server.Listen != ":8080" {
		t.Fatalf("listen = %q", cfg.Server.Listen)
	}
}

func TestLoadTokenFromEnv(t *testing.T) {
	t.Setenv("ADMIN_BOT_TOKEN", "env-admin")
	t.Setenv("USER_BOT_TOKEN", "env-user")
	t.Setenv("USER_BOT_USERNAME", "EnvBot")

	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AdminBot.Token != "env-admin" || cfg.UserBot.Token != "env-user" {
		t.Fatalf("tokens = %q / %q", cfg.AdminBot.Token, cfg.UserBot.Token)
	}
	if cfg.UserBot.Username != "EnvBot" {
		t.Fatalf("username = %q", cfg.UserBot.Username)
	}
}

func TestNormalizeRejectsMissingToken(t *testing.T) {
	cfg := &Config{}
	cfg.UserBot.Token = "x"
	cfg.UserBot.Username = "bot"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing admin token")
	}
}

func TestNormalizeRejectsMissingUsername(t *testing.T) {
	cfg := &Config{}
	cfg.AdminBot.Token = "a"
	cfg.UserBot.Token = "u"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing user bot username")
	}
}

func TestNormalizeWebhookRequirements(t *testing.T) {
	cfg := &Config{}
	cfg.AdminBot.Token = "a"
	cfg.AdminBot.RunMode = RunModeWebhook
	cfg.UserBot.Token = "u"
	cfg.UserBot.Username = "bot"
	if err := Normalize(cfg); err == nil {
		t.Fatal("webhook mode without url/listen/port should fail")
	}

	cfg.AdminBot.Webhook = WebhookConfig{URL: "https://x.example", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := &Config{}
	cfg.AdminBot.Token = "a"
	cfg.AdminBot.RunMode = "polling"
	cfg.UserBot.Token = "u"
	cfg.UserBot.Username = "bot"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.AdminBot.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q", cfg.AdminBot.RunMode)
	}
}

func TestNormalizeRejectsBadExcludeUpdates(t *testing.T) {
	cfg := &Config{}
	cfg.AdminBot.Token = "a"
	cfg.UserBot.Token = "u"
	cfg.UserBot.Username = "bot"
	cfg.RateLimit.ExcludeUpdates = []string{"bogus"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for invalid exclude_updates")
	}
}

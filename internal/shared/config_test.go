package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Discord.APIBaseURL != "https://discord.com/api/v10" {
			t.Errorf("unexpected default API base URL: %s", config.Discord.APIBaseURL)
		}
		if config.Matching.Threshold != 80 {
			t.Errorf("expected default threshold 80, got %d", config.Matching.Threshold)
		}
		if config.Roster.NameColumn != 1 {
			t.Errorf("expected default name column 1, got %d", config.Roster.NameColumn)
		}
		if config.Roster.GroupColumn != 11 {
			t.Errorf("expected default group column 11, got %d", config.Roster.GroupColumn)
		}
		if !config.Roster.HasHeader {
			t.Error("expected default roster to have a header row")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("valid file", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			content := `
[discord]
token = "test-token"
guild_id = "123456789"

[matching]
threshold = 70
workers = 4
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if config.Discord.Token != "test-token" {
				t.Errorf("expected token 'test-token', got %s", config.Discord.Token)
			}
			if config.Discord.GuildID != "123456789" {
				t.Errorf("expected guild ID '123456789', got %s", config.Discord.GuildID)
			}
			if config.Matching.Threshold != 70 {
				t.Errorf("expected threshold 70, got %d", config.Matching.Threshold)
			}
			if config.Matching.Workers != 4 {
				t.Errorf("expected workers 4, got %d", config.Matching.Workers)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
				t.Error("expected error for missing config file")
			}
		})

		t.Run("malformed file", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			if err := os.WriteFile(path, []byte("[discord\ntoken ="), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error for malformed config file")
			}
		})
	})

	t.Run("SaveConfig", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		config := DefaultConfig()
		config.Discord.Token = "saved-token"
		config.Matching.Threshold = 65

		if err := SaveConfig(path, config); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("saved config should parse: %v", err)
		}
		if loaded.Discord.Token != "saved-token" {
			t.Errorf("expected saved token, got %s", loaded.Discord.Token)
		}
		if loaded.Matching.Threshold != 65 {
			t.Errorf("expected saved threshold 65, got %d", loaded.Matching.Threshold)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := LoadConfig(path); err != nil {
			t.Errorf("scaffolded config should parse: %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when config file already exists")
		}
	})
}

package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/shared"
	tu "github.com/desertthunder/rollcall/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			discord := &tu.MockMembership{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Discord:    discord,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.discord != discord {
				t.Error("expected discord to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				HTTPClient: nil,
			})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 6 {
			t.Errorf("expected 6 commands, got %d", len(commands))
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

// newTestRunner builds a Runner wired to a mock Discord service, a temp
// roster file with one name column and one group column, and a temp database.
func newTestRunner(t *testing.T, members []models.Member, rosterCSV string) (*Runner, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	rosterPath := filepath.Join(dir, "attendees.csv")
	tu.MustWriteFile(t, rosterPath, rosterCSV)

	config := shared.DefaultConfig()
	config.Discord.GuildID = "99"
	config.Roster.Path = rosterPath
	config.Roster.NameColumn = 0
	config.Roster.GroupColumn = 1
	config.Roster.HasHeader = false
	config.Database.Path = filepath.Join(dir, "rollcall.db")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  config,
		Discord: &tu.MockMembership{Members: members},
		Output:  output,
	})

	return runner, output
}

func runCommand(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{
		Name:     "rollcall",
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"rollcall"}, args...))
}

func TestCheckRunCommand(t *testing.T) {
	members := []models.Member{
		{ID: "1", Username: "jdoe", DisplayName: "John Doe"},
	}
	rosterCSV := "John Doe,A\nSarah Connor,B\n"

	t.Run("reports missing attendees", func(t *testing.T) {
		runner, output := newTestRunner(t, members, rosterCSV)

		if err := runCommand(t, runner, "check", "run"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		text := output.String()
		if !strings.Contains(text, "Missing attendees: 1") {
			t.Errorf("expected one missing attendee, got:\n%s", text)
		}
		if !strings.Contains(text, "Sarah Connor") {
			t.Errorf("expected Sarah Connor in report, got:\n%s", text)
		}
		if strings.Contains(text, "John Doe") {
			t.Errorf("matched attendee should not appear in report, got:\n%s", text)
		}
	})

	t.Run("rejects out-of-range threshold", func(t *testing.T) {
		runner, _ := newTestRunner(t, members, rosterCSV)

		err := runCommand(t, runner, "check", "run", "--threshold", "101")
		if !errors.Is(err, shared.ErrInvalidThreshold) {
			t.Errorf("expected ErrInvalidThreshold, got %v", err)
		}
	})

	t.Run("exports csv report", func(t *testing.T) {
		runner, output := newTestRunner(t, members, rosterCSV)
		path := filepath.Join(t.TempDir(), "report.csv")

		if err := runCommand(t, runner, "check", "run", "--format", "csv", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), path) {
			t.Error("expected written path in output")
		}
		if !strings.Contains(tu.MustReadFile(t, path), "Sarah Connor,B") {
			t.Error("expected missing attendee row in CSV")
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		runner, _ := newTestRunner(t, members, rosterCSV)

		err := runCommand(t, runner, "check", "run", "--format", "xlsx")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestCheckReportCommand(t *testing.T) {
	members := []models.Member{
		{ID: "1", Username: "jdoe", DisplayName: "John Doe"},
	}
	rosterCSV := "John Doe,A\nSarah Connor,A\n"

	runner, output := newTestRunner(t, members, rosterCSV)

	if err := runCommand(t, runner, "check", "report"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := output.String()
	if !strings.Contains(text, "A: 1 present, 1 missing of 2") {
		t.Errorf("expected group totals, got:\n%s", text)
	}
	if !strings.Contains(text, "✓ John Doe") || !strings.Contains(text, "✗ Sarah Connor") {
		t.Errorf("expected per-attendee rows, got:\n%s", text)
	}
}

func TestMembersCommands(t *testing.T) {
	members := []models.Member{
		{ID: "1", Username: "jdoe", DisplayName: "John Doe"},
		{ID: "2", Username: "helper", DisplayName: "Helper", Bot: true},
	}

	t.Run("fetch then list then clear", func(t *testing.T) {
		runner, output := newTestRunner(t, members, "John Doe,A\n")

		if err := runCommand(t, runner, "members", "fetch"); err != nil {
			t.Fatalf("fetch: expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Cached 2 members") {
			t.Errorf("expected cache confirmation, got:\n%s", output.String())
		}

		output.Reset()
		if err := runCommand(t, runner, "members", "list"); err != nil {
			t.Fatalf("list: expected no error, got %v", err)
		}
		text := output.String()
		if !strings.Contains(text, "John Doe") || !strings.Contains(text, "[bot]") {
			t.Errorf("expected cached members listed, got:\n%s", text)
		}

		output.Reset()
		if err := runCommand(t, runner, "members", "clear"); err != nil {
			t.Fatalf("clear: expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Removed 2 cached members") {
			t.Errorf("expected clear confirmation, got:\n%s", output.String())
		}
	})

	t.Run("cached check uses snapshot", func(t *testing.T) {
		runner, output := newTestRunner(t, members, "John Doe,A\nSarah Connor,B\n")

		if err := runCommand(t, runner, "members", "fetch"); err != nil {
			t.Fatalf("fetch: expected no error, got %v", err)
		}

		// Break the API path so only the cache can serve members
		runner.discord = &tu.MockMembership{Err: errors.New("network down")}

		output.Reset()
		if err := runCommand(t, runner, "check", "run", "--cached"); err != nil {
			t.Fatalf("cached check: expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Sarah Connor") {
			t.Errorf("expected missing attendee from cached run, got:\n%s", output.String())
		}
	})

	t.Run("cached check without snapshot fails", func(t *testing.T) {
		runner, _ := newTestRunner(t, members, "John Doe,A\n")

		err := runCommand(t, runner, "check", "run", "--cached")
		if err == nil || !strings.Contains(err.Error(), "no cached members") {
			t.Errorf("expected no-cached-members error, got %v", err)
		}
	})
}

func TestRosterShowCommand(t *testing.T) {
	runner, output := newTestRunner(t, nil, "John Doe,A\nSarah Connor,B\nNo Group\n")

	if err := runCommand(t, runner, "roster", "show"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := output.String()
	if !strings.Contains(text, "Attendees: 3 in 3 groups") {
		t.Errorf("expected roster summary, got:\n%s", text)
	}
	if !strings.Contains(text, "Unknown (1)") {
		t.Errorf("expected Unknown bucket for blank group, got:\n%s", text)
	}
}

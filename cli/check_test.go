package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

// writeSite lays out a views directory and a config file pointing at it.
func writeSite(t *testing.T, views map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	viewsDir := filepath.Join(dir, "views")

	for name, content := range views {
		file := filepath.Join(viewsDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(file, []byte(content), 0644); err != nil {
			t.Fatalf("write %s failed: %v", name, err)
		}
	}

	configPath := filepath.Join(dir, "sumpage.config.yml")
	config := "outputDir: " + filepath.Join(dir, "cache") + "\nviewsDir: " + viewsDir + "\n"
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	return configPath
}

func runCheck(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := &cli.App{
		Commands: []*cli.Command{CheckCommand},
		ExitErrHandler: func(c *cli.Context, err error) {
		},
	}

	var appErr error
	output := captureOutput(func() {
		appErr = app.Run(append([]string{"cli", "check"}, args...))
	})
	return output, appErr
}

func TestCheckCommand_EmbeddedViews(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yml")

	output, err := runCheck(t, "--config", missing)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	for _, want := range []string{"✅ calculator", "✅ error", "All views validated successfully."} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestCheckCommand_ParseError(t *testing.T) {
	configPath := writeSite(t, map[string]string{
		"bad.html": `{{ if }} {{ end }}`,
	})

	output, appErr := runCheck(t, "-c", configPath)

	if !strings.Contains(output, "❌ bad → parse view bad:") {
		t.Errorf("expected parse error, got:\n%s", output)
	}

	exitErr, ok := appErr.(cli.ExitCoder)
	if !ok || exitErr.ExitCode() != 1 {
		t.Fatalf("expected cli.Exit code 1, got: %v", appErr)
	}
}

func TestCheckCommand_ExecError(t *testing.T) {
	configPath := writeSite(t, map[string]string{
		"bad.html":    "<!-- layout: layout.html -->\n{{ define \"content\" }}Page{{ end }}",
		"layout.html": `{{ define "not-layout" }}This compiles, but won't be executed{{ end }}`,
		"good.html":   `<p>fine</p>`,
	})

	output, appErr := runCheck(t, "-c", configPath)

	if !strings.Contains(output, "❌ bad → execute view bad:") {
		t.Errorf("expected exec error message for bad, got:\n%s", output)
	}
	if !strings.Contains(output, "✅ good") {
		t.Errorf("expected good view to pass, got:\n%s", output)
	}
	if strings.Contains(output, "All views validated successfully.") {
		t.Errorf("did not expect success message, got:\n%s", output)
	}

	exitErr, ok := appErr.(cli.ExitCoder)
	if !ok || exitErr.ExitCode() != 1 {
		t.Fatalf("expected cli.Exit code 1, got: %v", appErr)
	}
}

func TestCheckCommand_NoViews(t *testing.T) {
	configPath := writeSite(t, map[string]string{
		"components/header.html": `{{ define "header" }}hi{{ end }}`,
	})

	_, appErr := runCheck(t, "-c", configPath)

	exitErr, ok := appErr.(cli.ExitCoder)
	if !ok || exitErr.ExitCode() != 1 {
		t.Fatalf("expected cli.Exit code 1, got: %v", appErr)
	}
}

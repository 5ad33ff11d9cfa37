package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mandelbrot/pkg/config"
	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/sink"
	"github.com/matzehuels/mandelbrot/pkg/store"
)

// execute runs the CLI with args on a fresh command tree.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeTestConfig writes a config whose bookmarks live under dir.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := config.Default()
	cfg.Store = store.Config{Backend: store.BackendFile, Path: filepath.Join(dir, "bookmarks")}
	path := filepath.Join(dir, "config.toml")
	if err := cfg.Write(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandTree(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"bookmark", "completion", "config", "explore", "regions", "render", "serve", "zoom"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing persistent --config flag")
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "mandelbrot version ") {
		t.Errorf("version output = %q", out)
	}
}

func TestConfigPathFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	c := New(io.Discard, LogInfo)
	c.configPath = path
	got, err := c.resolveConfigPath()
	if err != nil || got != path {
		t.Errorf("resolveConfigPath() = %q, %v; want %q", got, err, path)
	}
}

func TestConfigDefaultPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	got, err := New(io.Discard, LogInfo).resolveConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-config", appName, "config.toml"); got != want {
		t.Errorf("resolveConfigPath() = %q, want %q", got, want)
	}
}

func TestMalformedConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nwidht = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "--config", path, "regions")
	if !mberr.Is(err, mberr.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT for unknown key", err)
	}
}

func TestConfigShow(t *testing.T) {
	path := writeTestConfig(t, t.TempDir())
	out, err := execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[render]", "[server]", `backend = "file"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestRenderWritesFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)
	base := filepath.Join(dir, "out", "set")

	_, err := execute(t, "--config", cfgPath, "render",
		"--width", "4", "--height", "4", "-n", "50", "-w", "2",
		"-f", "png,json", "-o", base)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(base + ".png"); err != nil {
		t.Errorf("png not written: %v", err)
	}
	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := sink.ReadJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]uint32{{0, 0, 1, 1}, {0, 2, 3, 6}, {0, 50, 50, 50}, {0, 2, 3, 6}}
	for y := range want {
		for x := range want[y] {
			if doc.Rows[y][x] != want[y][x] {
				t.Fatalf("rows = %v, want %v", doc.Rows, want)
			}
		}
	}
}

func TestRenderRejectsConflictingViews(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)
	tests := []struct {
		name string
		args []string
		code mberr.Code
	}{
		{"region and bounds", []string{"--region", "full", "--left", "-1"}, mberr.ErrCodeInvalidInput},
		{"partial bounds", []string{"--left", "-1", "--right", "1"}, mberr.ErrCodeInvalidView},
		{"unknown region", []string{"--region", "atlantis"}, mberr.ErrCodeInvalidView},
		{"bad format", []string{"-f", "gif"}, mberr.ErrCodeInvalidFormat},
		{"missing bookmark", []string{"--bookmark", "nowhere"}, mberr.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfgPath, "render", "--width", "4", "--height", "4", "-o", filepath.Join(dir, "x.png")}, tt.args...)
			_, err := execute(t, args...)
			if !mberr.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBookmarkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	if _, err := execute(t, "--config", cfgPath, "bookmark", "save", "seahorse", "--region", "seahorse-valley", "-n", "64"); err != nil {
		t.Fatalf("save: %v", err)
	}

	st, err := store.NewFileStore(filepath.Join(dir, "bookmarks"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := st.Get(context.Background(), "seahorse")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := fractal.Region("seahorse-valley")
	if b.View != want || b.MaxIterations != 64 {
		t.Errorf("saved bookmark = %+v", b)
	}

	out := filepath.Join(dir, "seahorse.json")
	if _, err := execute(t, "--config", cfgPath, "render", "--bookmark", "seahorse", "--width", "3", "--height", "2", "-f", "json", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := sink.ReadJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if doc.MaxIterations != 64 || doc.View == nil || *doc.View != want {
		t.Errorf("render doc = %+v", doc)
	}

	if _, err := execute(t, "--config", cfgPath, "bookmark", "delete", "seahorse"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := execute(t, "--config", cfgPath, "bookmark", "show", "seahorse"); !mberr.Is(err, mberr.ErrCodeNotFound) {
		t.Errorf("show after delete err = %v, want NOT_FOUND", err)
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "mandelbrot") {
		t.Error("bash completion should mention the command name")
	}
}

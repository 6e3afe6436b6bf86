package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func TestConfigBuildFilter(t *testing.T) {
	type check struct {
		level zapcore.Level
		name  string
		want  bool
	}
	tests := []struct {
		name   string
		cfg    Config
		checks []check
	}{
		{
			name: "default floor",
			cfg:  Config{DefaultLevel: "info"},
			checks: []check{
				{zapcore.DebugLevel, "svg", false},
				{zapcore.InfoLevel, "svg", true},
				{zapcore.ErrorLevel, "", true},
			},
		},
		{
			name: "namespace opened up",
			cfg: Config{
				DefaultLevel: "warn",
				Filters:      []string{"debug+:svg.*"},
			},
			checks: []check{
				{zapcore.DebugLevel, "svg.path", true},
				{zapcore.DebugLevel, "align", false},
				{zapcore.WarnLevel, "align", true},
			},
		},
		{
			name: "empty default",
			cfg:  Config{},
			checks: []check{
				{zapcore.DebugLevel, "svg", false},
				{zapcore.InfoLevel, "svg", true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := tt.cfg.BuildFilter()
			if err != nil {
				t.Fatalf("BuildFilter() error = %v", err)
			}
			for _, c := range tt.checks {
				arg := zapcore.Entry{Level: c.level, LoggerName: c.name}
				if got := filter(arg, nil); got != c.want {
					t.Errorf("filter(%v,%q) = %v, want %v",
						c.level, c.name, got, c.want)
				}
			}
		})
	}
}

func TestConfigBuildFilterInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "bogus level", cfg: Config{DefaultLevel: "chatty"}},
		{name: "bogus rule", cfg: Config{Filters: []string{"no-such-level:*"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.BuildFilter(); err == nil {
				t.Errorf("BuildFilter() expected error")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "log.yml")
	content := `
defaultLevel: warn
filters:
  - "debug+:svg.*"
  - "info+:processing"
`
	if err := os.WriteFile(fileName, []byte(content), 0o600); err != nil {
		t.Fatalf("prepare config: %v", err)
	}
	got, err := LoadConfig(fileName)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	want := &Config{
		DefaultLevel: "warn",
		Filters:      []string{"debug+:svg.*", "info+:processing"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

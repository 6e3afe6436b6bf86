package log

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
	"moul.io/zapfilter"
)

// Config describes filter rules for named loggers. Each entry in
// Filters uses the zapfilter rule syntax "levels:namespaces", for
// example "debug:svg.*,processing" or "warn+:grpc.*". DefaultLevel
// provides the floor for namespaces no rule matches.
type Config struct {
	DefaultLevel string   `yaml:"defaultLevel"`
	Filters      []string `yaml:"filters"`
}

func LoadConfig(fileName string) (*Config, error) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	ret := &Config{}
	if err := yaml.Unmarshal(content, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// BuildFilter compiles the configured rules into a FilterFunc.
func (c *Config) BuildFilter() (FilterFunc, error) {
	defaultLevel := InfoLevel
	if c.DefaultLevel != "" {
		var err error
		if defaultLevel, err = ParseLevel(c.DefaultLevel); err != nil {
			return nil, err
		}
	}
	rules := append([]string{}, c.Filters...)
	rules = append(rules, fmt.Sprintf("%s+:*", defaultLevel.String()))
	return zapfilter.ParseRules(strings.Join(rules, " "))
}

func applyConfigFile(fileName string, target *Logger) error {
	cfg, err := LoadConfig(fileName)
	if err != nil {
		return err
	}
	filter, err := cfg.BuildFilter()
	if err != nil {
		return err
	}
	target.SetFilter(filter)
	return nil
}

// WatchConfig applies the filter config in fileName to target and
// reloads it whenever the file changes. The watcher is closed when ctx
// is done. Invalid updates are reported and the previous filter stays
// active.
func WatchConfig(ctx context.Context, fileName string, target *Logger) error {
	if err := applyConfigFile(fileName, target); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// watch the directory so we pick up editors replacing the file
	if err := watcher.Add(filepath.Dir(fileName)); err != nil {
		watcher.Close()
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != fileName ||
					!event.Op.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if err := applyConfigFile(fileName, target); err != nil {
					target.Warn("could not reload log config",
						String("file", fileName), ErrorField(err))
				} else {
					target.Debug("log config reloaded",
						String("file", fileName))
				}
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				target.Warn("log config watcher", ErrorField(watchErr))
			}
		}
	}()
	return nil
}

// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names a config file to use instead of searching
// DefaultConfigPaths.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are tried in order; the first existing file is loaded.
var DefaultConfigPaths = []string{
	"config.yaml",
	"/etc/guesthouse/config.yaml",
}

// envBinding is where an environment variable lands in the koanf tree.
type envBinding struct {
	path string
	list bool // comma-separated
}

// envBindings is built once from the env struct tags.
var envBindings = bindEnv(reflect.TypeOf(Config{}), "", map[string]envBinding{})

func bindEnv(t reflect.Type, parent string, into map[string]envBinding) map[string]envBinding {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := f.Tag.Get("koanf")
		if key == "" {
			continue
		}
		if parent != "" {
			key = parent + "." + key
		}
		if f.Type.Kind() == reflect.Struct {
			bindEnv(f.Type, key, into)
			continue
		}
		if name := f.Tag.Get("env"); name != "" {
			into[name] = envBinding{path: key, list: f.Type.Kind() == reflect.Slice}
		}
	}
	return into
}

// LoadWithKoanf merges three layers, each overriding the one before:
// built-in defaults, the YAML config file if one exists, and the
// environment. The merged result must pass Validate.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := configFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", fromEnv), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := new(Config)
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// fromEnv maps one environment variable to a koanf key and value. Variables
// without an env tag return an empty key, which koanf skips.
func fromEnv(name, value string) (string, interface{}) {
	b, ok := envBindings[strings.ToUpper(name)]
	if !ok {
		return "", nil
	}
	if !b.list {
		return b.path, value
	}
	items := splitList(value)
	if len(items) == 0 {
		return "", nil
	}
	return b.path, items
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func configFile() string {
	candidates := DefaultConfigPaths
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		candidates = []string{p}
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/flowpipe/errors"
	"github.com/kbukum/flowpipe/logger"
)

// FileSystem abstracts the file operations used while loading.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem is the FileSystem backed by the process environment.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds the loader's dependencies and explicit file paths.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the OS filesystem.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile skips the search for config.yml.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile skips the search for the .env file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// LoadConfig reads config.yml, then the .env file, then the environment
// into cfg. Later sources override earlier ones. A missing file is not an
// error; a malformed one is INVALID_CONFIG.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: OSFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.ConfigFile == "" {
		lc.ConfigFile = findFile(lc.FileSystem, searchDirs(serviceName), "config.yml", "config.yaml")
	}
	if lc.EnvFile == "" {
		lc.EnvFile = findFile(lc.FileSystem, searchDirs(serviceName), ".env."+serviceName, ".env")
	}

	v := viper.New()
	if lc.ConfigFile != "" && lc.FileSystem.Exists(lc.ConfigFile) {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.InvalidConfig(fmt.Sprintf("reading %s: %v", lc.ConfigFile, err)).WithCause(err)
		}
		logger.Debug("config file loaded", logger.Fields("file", lc.ConfigFile))
	}

	if lc.EnvFile != "" && lc.FileSystem.Exists(lc.EnvFile) {
		if err := lc.FileSystem.LoadEnv(lc.EnvFile); err != nil {
			logger.Warn("failed to load env file", logger.Fields(
				"file", lc.EnvFile,
				logger.FieldError, err.Error(),
			))
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range settingKeys(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(key); err != nil {
			return errors.InvalidConfig(fmt.Sprintf("binding %s: %v", key, err)).WithCause(err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidConfig(fmt.Sprintf("unmarshal config for %s: %v", serviceName, err)).WithCause(err)
	}
	return nil
}

// Load is LoadConfig followed by cfg.ApplyDefaults and cfg.Validate.
func Load(serviceName string, cfg Config, opts ...LoaderOption) error {
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	return cfg.Validate()
}

// searchDirs lists the directories searched for config and env files,
// nearest first. The empty entry is the working directory.
func searchDirs(serviceName string) []string {
	var dirs []string
	for _, sub := range []string{"cmd/" + serviceName, "config"} {
		dirs = append(dirs, "./"+sub, "../"+sub, "../../"+sub)
	}
	return append(dirs, "..", "")
}

// findFile returns the first existing dir/name, trying every directory for
// a name before moving to the next name.
func findFile(fs FileSystem, dirs []string, names ...string) string {
	for _, name := range names {
		for _, dir := range dirs {
			path := name
			if dir != "" {
				path = dir + "/" + name
			}
			if fs.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// settingKeys returns the dotted viper key of every leaf field reachable
// from t, following mapstructure tags. Squashed structs contribute their
// fields at the parent level.
func settingKeys(t reflect.Type, prefix string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if opts == "squash" && ft.Kind() == reflect.Struct {
			keys = append(keys, settingKeys(ft, prefix)...)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		key := prefix + name
		if ft.Kind() == reflect.Struct && ft.NumField() > 0 && ft.PkgPath() != "time" {
			keys = append(keys, settingKeys(ft, key+".")...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

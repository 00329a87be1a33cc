package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/kochabx/clea/core/tag"
	"github.com/kochabx/clea/core/validator"
	"github.com/kochabx/clea/errors"
)

// FileLoader loads configuration from file
type FileLoader struct {
	viper    *viper.Viper
	validate validator.Validator
	name     string
	paths    []string
}

// NewFileLoader creates a loader searching name in paths
func NewFileLoader(name string, paths []string, v *viper.Viper, validate validator.Validator) *FileLoader {
	for _, configPath := range paths {
		v.AddConfigPath(configPath)
	}
	v.SetConfigName(name)

	return newFileLoader(name, paths, v, validate)
}

// NewFileLoaderFromPath creates a loader reading exactly file
func NewFileLoaderFromPath(file string, v *viper.Viper, validate validator.Validator) *FileLoader {
	v.SetConfigFile(file)

	return newFileLoader(filepath.Base(file), []string{filepath.Dir(file)}, v, validate)
}

func newFileLoader(name string, paths []string, v *viper.Viper, validate validator.Validator) *FileLoader {
	// Determine config type from file extension
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(name), "."))

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &FileLoader{
		viper:    v,
		paths:    paths,
		name:     name,
		validate: validate,
	}
}

// Load implements Loader interface. The file is decoded into a fresh value
// that replaces *target only once it validates, so keys removed from the
// file do not linger and a failed reload leaves target untouched.
func (l *FileLoader) Load(target any) error {
	tv := reflect.ValueOf(target)
	if tv.Kind() != reflect.Pointer || tv.IsNil() {
		return errors.Internal("config target must be a non-nil pointer")
	}
	fresh := reflect.New(tv.Elem().Type())
	target = fresh.Interface()

	// Apply default values from struct tags BEFORE unmarshalling
	if err := tag.ApplyDefaults(target); err != nil {
		return errors.Internal("failed to apply defaults: %v", err)
	}

	if err := l.viper.ReadInConfig(); err != nil {
		return errors.New(404, "config file not found: %v", err)
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := l.viper.Unmarshal(target, hook); err != nil {
		return errors.Format("config parse error: %v", err)
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return errors.Validation("config validation failed", errors.Violations(err)...)
		}
	}

	tv.Elem().Set(fresh.Elem())
	return nil
}

// Watch implements Loader interface
func (l *FileLoader) Watch(callback func()) error {
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if callback != nil {
			callback()
		}
	})

	l.viper.WatchConfig()
	return nil
}

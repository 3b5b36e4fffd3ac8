// Package config loads and validates phpdoccheck settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the checked directory when --config is not given.
const DefaultFile = ".phpdoccheck.yml"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatTOON = "toon"
)

// Config holds every setting that can come from the config file or flags.
type Config struct {
	Directory      string   `yaml:"directory" validate:"required"`
	Files          []string `yaml:"files,omitempty"`
	Exclude        []string `yaml:"exclude,omitempty"`
	SkipClasses    bool     `yaml:"skip-classes"`
	SkipMethods    bool     `yaml:"skip-methods"`
	SkipSignatures bool     `yaml:"skip-signatures"`
	FailOnWarnings bool     `yaml:"fail-on-warnings"`
	InfoOnly       bool     `yaml:"info-only"`
	Format         string   `yaml:"format" validate:"oneof=text json toon"`
	FilesPerLine   int      `yaml:"files-per-line" validate:"min=1"`
	PHPVersion     int      `yaml:"php-version" validate:"min=5,max=9"`
	Workers        int      `yaml:"workers" validate:"min=0"`
	MaxFileSize    int      `yaml:"max-file-size" validate:"min=1"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Directory:    "./",
		Format:       FormatText,
		FilesPerLine: 50,
		PHPVersion:   8,
		MaxFileSize:  1_000_000,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the settings, reporting every invalid field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, strings.TrimSpace(fmt.Sprintf("%s: %v fails %s %s", fe.Field(), fe.Value(), fe.Tag(), fe.Param())))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Load overlays the YAML file at path onto cfg. A missing file is not an
// error when optional is set.
func Load(path string, cfg *Config, optional bool) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

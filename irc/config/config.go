// Package config loads client configuration from a YAML, TOML or JSON file
// (or URL), applies environment variable overrides, and validates the result.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config describes one IRC client session.
type Config struct {
	// Server settings
	Server struct {
		Host     string `yaml:"host" toml:"host" json:"host" env:"IRC_HOST" validate:"required"`
		Port     int    `yaml:"port" toml:"port" json:"port" env:"IRC_PORT" validate:"min=1,max=65535"`
		Password string `yaml:"password" toml:"password" json:"password" env:"IRC_PASSWORD"`
		TLS      bool   `yaml:"tls" toml:"tls" json:"tls" env:"IRC_TLS"`
	} `yaml:"server" toml:"server" json:"server"`

	// Identity used during registration
	User struct {
		Nickname string `yaml:"nickname" toml:"nickname" json:"nickname" env:"IRC_NICKNAME" validate:"required"`
		Username string `yaml:"username" toml:"username" json:"username" env:"IRC_USERNAME"`
		Realname string `yaml:"realname" toml:"realname" json:"realname" env:"IRC_REALNAME"`
	} `yaml:"user" toml:"user" json:"user"`

	// Channels to join after registration, in order
	Channels []string `yaml:"channels" toml:"channels" json:"channels" env:"IRC_CHANNELS" validate:"dive,required"`

	// Session tuning
	Session struct {
		DialTimeoutSeconds int  `yaml:"dial_timeout_seconds" toml:"dial_timeout_seconds" json:"dial_timeout_seconds" env:"IRC_DIAL_TIMEOUT" validate:"min=0"`
		IdleTimeoutSeconds int  `yaml:"idle_timeout_seconds" toml:"idle_timeout_seconds" json:"idle_timeout_seconds" env:"IRC_IDLE_TIMEOUT" validate:"min=0"`
		DeliveryBuffer     int  `yaml:"delivery_buffer" toml:"delivery_buffer" json:"delivery_buffer" env:"IRC_DELIVERY_BUFFER" validate:"min=0"`
		Debug              bool `yaml:"debug" toml:"debug" json:"debug" env:"IRC_DEBUG"`
	} `yaml:"session" toml:"session" json:"session"`

	// Configuration source for reloading
	Source string
}

// Load loads configuration from a file or URL.
func Load(source string) (*Config, error) {
	cfg := &Config{
		Source: source,
	}

	// Set defaults
	cfg.Server.Port = 6667

	err := cfg.loadFromSource(source)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its validate tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadFromSource loads configuration from a file or URL
func (c *Config) loadFromSource(source string) error {
	var data []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return fmt.Errorf("failed to load config from URL: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to load config from URL, status: %s", resp.Status)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read config from URL: %v", err)
		}
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("failed to read config file: %v", err)
		}
	}

	// Determine the format based on file extension
	switch {
	case strings.HasSuffix(source, ".toml"):
		err = toml.Unmarshal(data, c)
	case strings.HasSuffix(source, ".json"):
		err = json.Unmarshal(data, c)
	default:
		// YAML, also the fallback for unknown extensions
		err = yaml.Unmarshal(data, c)
	}

	if err != nil {
		return fmt.Errorf("failed to parse config: %v", err)
	}

	c.Source = source
	return nil
}

// ServerAddress returns the host:port the client should dial.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	applyEnvOverridesRecursive(reflect.ValueOf(cfg).Elem())
}

// applyEnvOverridesRecursive recursively applies environment variable overrides
func applyEnvOverridesRecursive(v reflect.Value) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Skip unexported fields
		if field.PkgPath != "" {
			continue
		}

		envTag := field.Tag.Get("env")

		if envTag != "" {
			if envValue, exists := os.LookupEnv(envTag); exists {
				setFieldFromEnv(fieldValue, envValue)
			}
		} else if field.Type.Kind() == reflect.Struct {
			applyEnvOverridesRecursive(fieldValue)
		}
	}
}

// setFieldFromEnv sets a field's value from an environment variable
func setFieldFromEnv(field reflect.Value, envValue string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(envValue)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v, err := parseInt(envValue); err == nil {
			field.SetInt(v)
		}
	case reflect.Bool:
		field.SetBool(parseBool(envValue))
	case reflect.Slice:
		// Comma-separated string slices, e.g. IRC_CHANNELS=#a,#b
		if field.Type().Elem().Kind() == reflect.String {
			values := strings.Split(envValue, ",")
			slice := reflect.MakeSlice(field.Type(), len(values), len(values))
			for i, v := range values {
				slice.Index(i).SetString(strings.TrimSpace(v))
			}
			field.Set(slice)
		}
	}
}

func parseInt(s string) (int64, error) {
	var v int64
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "y"
}

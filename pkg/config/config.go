// Package config defines the runtime configuration for the SDK: the platform
// API endpoint, organization credentials, pagination pacing, debug mode and
// per-operation timeouts. It also provides validation, defaulting and
// loading helpers (YAML file and environment / .env).
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the production platform endpoint.
const DefaultAPIURL = "https://app.polyteia.com"

// Environment variables consulted by FromEnv.
const (
	EnvAPIURL      = "POLYTEIA_API_URL"
	EnvOrgID       = "POLYTEIA_ORG_ID"
	EnvPAK         = "POLYTEIA_PAK"
	EnvAccessToken = "POLYTEIA_ACCESS_TOKEN"
	EnvDebug       = "POLYTEIA_DEBUG"
)

// Config holds all SDK settings required to talk to the platform.
// Use Validate to fill implicit defaults and to check field constraints.
type Config struct {
	// APIURL is the base URL of the platform, without trailing slash.
	// Default: https://app.polyteia.com
	APIURL string `json:"api_url" yaml:"api_url" validate:"required,url"`
	// OrganizationID is the organization the personal access key is exchanged for.
	OrganizationID string `json:"organization_id" yaml:"organization_id"`
	// PersonalAccessKey is the long-lived key used to obtain access tokens.
	PersonalAccessKey string `json:"personal_access_key" yaml:"personal_access_key"`
	// AccessToken is a short-lived bearer token. When set, no exchange is needed.
	AccessToken string `json:"access_token" yaml:"access_token"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
	// Tracing wraps the HTTP transport with OpenTelemetry instrumentation.
	Tracing bool `json:"tracing" yaml:"tracing"`
	// Pagination controls the list-all helpers.
	Pagination Pagination `json:"pagination" yaml:"pagination"`
	// Timeouts configures per-operation timeouts. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// Pagination controls page size and pacing for helpers that walk every page
// of a list query.
type Pagination struct {
	PageSize int           `json:"page_size" yaml:"page_size" validate:"gte=0,lte=1000"`
	Interval time.Duration `json:"interval" yaml:"interval" validate:"gte=0"`
}

// Timeouts controls SDK operation deadlines.
// Zero values will be replaced by defaults in WithDefaults.
type Timeouts struct {
	Request  time.Duration `json:"request" yaml:"request" validate:"gte=0"`   // command / query round trip
	Upload   time.Duration `json:"upload" yaml:"upload" validate:"gte=0"`     // multipart file upload
	Download time.Duration `json:"download" yaml:"download" validate:"gte=0"` // parquet export download
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate normalizes the configuration by applying implicit defaults for
// APIURL and Pagination, then checks field constraints.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	c.Pagination = c.Pagination.WithDefaults()

	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			fe := ve[0]
			return fmt.Errorf("invalid config: %s failed on '%s'", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// HasCredentials reports whether the configuration can produce an access
// token, either directly or by exchanging a personal access key.
func (c *Config) HasCredentials() bool {
	return c.AccessToken != "" || (c.OrganizationID != "" && c.PersonalAccessKey != "")
}

// WithDefaults returns a copy of p with zero values replaced by defaults:
//
//	PageSize: 100
//	Interval: 200ms
func (p Pagination) WithDefaults() Pagination {
	pp := p
	if pp.PageSize == 0 {
		pp.PageSize = 100
	}
	if pp.Interval == 0 {
		pp.Interval = 200 * time.Millisecond
	}
	return pp
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Request:  30s
//	Upload:   120s
//	Download: 120s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Request == 0 {
		tt.Request = 30 * time.Second
	}
	if tt.Upload == 0 {
		tt.Upload = 120 * time.Second
	}
	if tt.Download == 0 {
		tt.Download = 120 * time.Second
	}
	return tt
}

// LoadFile reads a YAML configuration file and validates it.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := new(Config)
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// FromEnv builds a configuration from POLYTEIA_* environment variables.
// The given dotenv files are loaded first; missing files are ignored and
// variables already present in the environment take precedence.
func FromEnv(dotenvFiles ...string) (*Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		APIURL:            os.Getenv(EnvAPIURL),
		OrganizationID:    os.Getenv(EnvOrgID),
		PersonalAccessKey: os.Getenv(EnvPAK),
		AccessToken:       os.Getenv(EnvAccessToken),
	}
	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvDebug, err)
		}
		cfg.Debug = debug
	}
	return cfg, cfg.Validate()
}

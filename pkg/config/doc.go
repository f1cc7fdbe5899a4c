// Package config provides configuration management for the Polyteia SDK.
//
// # Basic Configuration
//
// The minimum configuration for authenticated calls is an organization and a
// personal access key (PAK). The API URL defaults to production:
//
//	cfg := &config.Config{
//		OrganizationID:    "YOUR_ORG_ID",
//		PersonalAccessKey: "YOUR_PAK",
//	}
//
// A short-lived access token can be supplied instead of the key pair:
//
//	cfg := &config.Config{AccessToken: "eyJ..."}
//
// # Loading
//
// LoadFile reads YAML:
//
//	api_url: https://dev.polyteia.com
//	organization_id: org-123
//	personal_access_key: pak-abc
//	pagination:
//	  page_size: 100
//	  interval: 200ms
//	timeouts:
//	  request: 30s
//	  upload: 2m
//
// FromEnv reads POLYTEIA_API_URL, POLYTEIA_ORG_ID, POLYTEIA_PAK,
// POLYTEIA_ACCESS_TOKEN and POLYTEIA_DEBUG, optionally seeded from .env files:
//
//	cfg, err := config.FromEnv(".env")
//
// # Validation
//
// Always call Validate() (LoadFile and FromEnv do it for you). It will:
//   - Set the default API URL and strip a trailing slash
//   - Fill pagination defaults (100 items per page, one page every 200ms)
//   - Reject malformed URLs, negative timeouts and page sizes above 1000
//
// Timeouts are filled separately with Timeouts.WithDefaults when the SDK
// client is built.
//
// # Thread Safety
//
// Config instances should be created once and not modified after passing to
// sdk.New. The Config is read-only during SDK operations.
package config

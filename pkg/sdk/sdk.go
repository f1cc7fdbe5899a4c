package sdk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/api"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/config"
	"github.com/polyteia-connect/polyteia-sdk-go/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNoAccessToken is returned by operations invoked on a client without an
// access token.
var ErrNoAccessToken = errors.New("access token not configured")

// logLevel is the level of the default logger installed by init. New lowers
// it to debug when the config asks for it.
var logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            logLevel,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Client is the SDK entry point. It is safe for concurrent use; WithAccessToken
// returns a copy bound to another token and shares the transport.
type Client struct {
	api      *api.Client
	files    *storage.Client
	cfg      config.Config
	token    string
	limiter  *rate.Limiter
	validate *validator.Validate
}

// New validates cfg and builds a client. The access token is taken from
// cfg.AccessToken; use Connect to exchange a personal access key instead.
// Transport options (metrics, custom HTTP client) are applied before tracing.
func New(cfg *config.Config, opts ...api.Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	c := *cfg
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.Timeouts = c.Timeouts.WithDefaults()

	if c.Debug {
		logLevel.SetLevel(zap.DebugLevel)
		zap.L().Debug("sdk config", zap.String("api_url", c.APIURL), zap.String("organization_id", c.OrganizationID))
	}

	all := append([]api.Option{}, opts...)
	if c.Tracing {
		all = append(all, api.WithTracing())
	}
	transport := api.NewClient(c.APIURL, all...)

	return &Client{
		api:      transport,
		files:    storage.NewStorage(transport),
		cfg:      c,
		token:    c.AccessToken,
		limiter:  rate.NewLimiter(rate.Every(c.Pagination.Interval), 1),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Connect builds a client and, unless cfg already carries an access token,
// exchanges the personal access key for one.
func Connect(ctx context.Context, cfg *config.Config, opts ...api.Option) (*Client, error) {
	c, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		return c, nil
	}
	if c.cfg.OrganizationID == "" || c.cfg.PersonalAccessKey == "" {
		return nil, fmt.Errorf("organization id and personal access key are required to connect")
	}
	token, err := c.GetOrgAccessToken(ctx, c.cfg.OrganizationID, c.cfg.PersonalAccessKey)
	if err != nil {
		return nil, err
	}
	return c.WithAccessToken(token), nil
}

// WithAccessToken returns a copy of c that authenticates with token.
func (c *Client) WithAccessToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// AccessToken returns the bearer token the client authenticates with.
func (c *Client) AccessToken() string { return c.token }

// Config returns the validated configuration the client was built from.
func (c *Client) Config() config.Config { return c.cfg }

// API returns the underlying transport.
func (c *Client) API() *api.Client { return c.api }

// Storage returns the file transfer client.
func (c *Client) Storage() *storage.Client { return c.files }

func (c *Client) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (c *Client) checkToken() error {
	if c.token == "" {
		return ErrNoAccessToken
	}
	return nil
}

// command sends a command envelope with the request timeout applied.
func (c *Client) command(ctx context.Context, label, name string, params any, keys ...string) (api.Document, error) {
	if err := c.checkToken(); err != nil {
		return api.Document{}, err
	}
	ctx, cancel := c.withTimeout(ctx, c.cfg.Timeouts.Request)
	defer cancel()
	return c.api.Command(ctx, c.token, name, params, api.ValidateOptions{Context: label, RequiredKeys: keys})
}

// query sends a query envelope with the request timeout applied.
func (c *Client) query(ctx context.Context, label, name string, params any, keys ...string) (api.Document, error) {
	if err := c.checkToken(); err != nil {
		return api.Document{}, err
	}
	ctx, cancel := c.withTimeout(ctx, c.cfg.Timeouts.Request)
	defer cancel()
	return c.api.Query(ctx, c.token, name, params, api.ValidateOptions{Context: label, RequiredKeys: keys})
}

func (c *Client) check(v any) error {
	if err := c.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid request: %s failed on '%s'", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%s is required", pairs[i])
		}
	}
	return nil
}

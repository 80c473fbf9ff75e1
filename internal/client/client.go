package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	DefaultUserAgent       = "zmctl-go"
	DefaultLoginRetries    = 3
	DefaultLoginRetryDelay = 500 * time.Millisecond
)

type ZoneMinderClient struct {
	HTTP   *resty.Client
	Config ClientConfig

	log zerolog.Logger

	// session state, see session.go
	mu      sync.Mutex
	state   authState
	session *session
	pending *authAttempt
	connKey string
}

type ClientConfig struct {
	Host     string
	User     string
	Password string

	AuthMode        AuthMode      // auto when empty
	LoginRetries    int           // cookie login retries; 0 means default, negative disables
	LoginRetryDelay time.Duration // pause before a cookie login retry
	ConnectionKey   string        // generated on first use when empty
	UserAgent       string
	Insecure        bool // skip TLS verification, common with self-signed NVR certificates
	Logger          *zerolog.Logger
}

// New validates cfg and returns an unauthenticated client.
// Nothing is sent until the first request.
func New(cfg ClientConfig) (*ZoneMinderClient, error) {
	required := []struct{ name, value string }{
		{"user", cfg.User},
		{"password", cfg.Password},
		{"host", cfg.Host},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, &ConfigurationError{Field: f.name}
		}
	}

	cfg.Host = strings.TrimSuffix(cfg.Host, "/")
	if !strings.Contains(cfg.Host, "://") {
		cfg.Host = "http://" + cfg.Host
	}

	switch cfg.AuthMode {
	case "":
		cfg.AuthMode = AuthAuto
	case AuthAuto, AuthToken, AuthCookie:
	default:
		return nil, &ConfigurationError{Field: "auth mode", Reason: fmt.Sprintf("unknown mode %q", cfg.AuthMode)}
	}
	if cfg.LoginRetries == 0 {
		cfg.LoginRetries = DefaultLoginRetries
	}
	if cfg.LoginRetryDelay <= 0 {
		cfg.LoginRetryDelay = DefaultLoginRetryDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "client").Logger()
	}

	r := resty.New()
	r.SetBaseURL(cfg.Host)
	r.SetHeader("User-Agent", cfg.UserAgent)
	r.SetHeader("Accept", "application/json, text/html;q=0.9, */*;q=0.8")
	r.SetLogger(restyLogger{log: logger})

	// The session is managed by hand. A jar or followed redirects would hide
	// the Set-Cookie headers of the login reply.
	r.SetCookieJar(nil)
	r.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))

	if cfg.Insecure {
		r.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &ZoneMinderClient{
		HTTP:    r,
		Config:  cfg,
		log:     logger,
		connKey: cfg.ConnectionKey,
	}, nil
}

// Response is a decoded reply body. JSON bodies are kept as bytes so callers
// can decode into their own types; anything else is passed through as text.
type Response struct {
	StatusCode int
	Header     http.Header
	Cookies    []*http.Cookie
	Body       []byte
	JSON       bool
}

// Decode unmarshals a JSON body into v.
func (r *Response) Decode(v any) error {
	if !r.JSON {
		return fmt.Errorf("response is not JSON: %s", truncate(r.String(), 200))
	}
	return json.Unmarshal(r.Body, v)
}

func (r *Response) String() string {
	return string(r.Body)
}

// MarshalJSON re-emits a JSON body as is and quotes a text body.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.JSON {
		return r.Body, nil
	}
	return json.Marshal(r.String())
}

// Fetch sends a request for path, logging in first when there is no session.
// A non-nil form turns the request into a url-encoded POST.
func (c *ZoneMinderClient) Fetch(ctx context.Context, path string, form url.Values) (*Response, error) {
	s, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, path, form, s)
}

// do performs one exchange. A nil session sends the request bare, which only
// the login requests do.
func (c *ZoneMinderClient) do(ctx context.Context, path string, form url.Values, s *session) (*Response, error) {
	req := c.HTTP.R().SetContext(ctx)
	if s != nil {
		s.apply(req)
	}

	method := resty.MethodGet
	if form != nil {
		method = resty.MethodPost
		req.SetFormDataFromValues(form)
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("request")

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Cookies:    resp.Cookies(),
		Body:       resp.Body(),
	}

	var parsed any
	if err := json.Unmarshal(out.Body, &parsed); err == nil {
		out.JSON = true
	}

	if obj, ok := parsed.(map[string]any); ok {
		if success, ok := obj["success"].(bool); ok && !success {
			return nil, &APIError{StatusCode: out.StatusCode, Payload: out.Body}
		}
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: out.StatusCode, Payload: out.Body}
	}

	return out, nil
}

// hostAuthority is the configured host without scheme or path, used when a
// monitor's server does not advertise its own hostname.
func (c *ZoneMinderClient) hostAuthority() string {
	u, err := url.Parse(c.Config.Host)
	if err != nil || u.Host == "" {
		return c.Config.Host
	}
	return u.Host
}

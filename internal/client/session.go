package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"zmctl/pkg/models"
)

// AuthMode selects how the client logs in. Servers moved from cookie sessions
// to API tokens across releases.
type AuthMode string

const (
	AuthAuto   AuthMode = "auto"   // token login, falling back to cookies
	AuthToken  AuthMode = "token"  // POST /api/host/login.json, token in the query string
	AuthCookie AuthMode = "cookie" // POST /index.php, session cookie header
)

const (
	loginPath     = "/api/host/login.json"
	loginPagePath = "/index.php"
)

type authState int

const (
	stateUnauthenticated authState = iota
	stateAuthenticating
	stateAuthenticated
)

type session struct {
	mode    AuthMode
	token   string
	cookies []*http.Cookie
}

func (s *session) apply(r *resty.Request) {
	if s.token != "" {
		r.SetQueryParam("token", s.token)
		return
	}
	r.SetCookies(s.cookies)
}

// authAttempt is one in-flight login. Callers arriving while it runs wait on
// done and share its outcome.
type authAttempt struct {
	done chan struct{}
	err  error
}

// ensureSession returns the current session, logging in when there is none.
// At most one login runs at a time per client.
func (c *ZoneMinderClient) ensureSession(ctx context.Context) (*session, error) {
	for {
		c.mu.Lock()
		switch c.state {
		case stateAuthenticated:
			s := c.session
			c.mu.Unlock()
			return s, nil

		case stateAuthenticating:
			attempt := c.pending
			c.mu.Unlock()
			select {
			case <-attempt.done:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if attempt.err != nil {
				return nil, attempt.err
			}
			// The session may have been cleared again meanwhile; look once more.
			continue
		}

		attempt := &authAttempt{done: make(chan struct{})}
		c.state = stateAuthenticating
		c.pending = attempt
		c.mu.Unlock()

		s, err := c.login(ctx)

		c.mu.Lock()
		if err != nil {
			err = &AuthenticationError{Mode: c.Config.AuthMode, Err: err}
			c.state = stateUnauthenticated
			c.session = nil
		} else {
			c.state = stateAuthenticated
			c.session = s
		}
		attempt.err = err
		c.pending = nil
		c.mu.Unlock()
		close(attempt.done)

		if err != nil {
			c.log.Warn().Err(err).Msg("login failed")
			return nil, err
		}
		c.log.Debug().Str("mode", string(s.mode)).Msg("logged in")
		return s, nil
	}
}

// Reauth drops the session so the next request logs in again.
// A login already in flight is left alone.
func (c *ZoneMinderClient) Reauth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateAuthenticated {
		c.state = stateUnauthenticated
		c.session = nil
	}
}

// Login forces a fresh login and reports which protocol the server accepted.
func (c *ZoneMinderClient) Login(ctx context.Context) (AuthMode, error) {
	c.Reauth()
	s, err := c.ensureSession(ctx)
	if err != nil {
		return "", err
	}
	return s.mode, nil
}

func (c *ZoneMinderClient) login(ctx context.Context) (*session, error) {
	switch c.Config.AuthMode {
	case AuthToken:
		return c.tokenLogin(ctx, false)
	case AuthCookie:
		return c.cookieLogin(ctx)
	}

	s, err := c.tokenLogin(ctx, true)
	if err == nil {
		return s, nil
	}
	var apiErr *APIError
	missing := errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
	if !missing && !errors.Is(err, errNoToken) {
		return nil, err
	}
	c.log.Debug().Err(err).Msg("token login unavailable, trying cookie login")
	return c.cookieLogin(ctx)
}

// tokenLogin posts to the API login endpoint. Older servers answer it with a
// session cookie instead of a token; allowCookie accepts that.
func (c *ZoneMinderClient) tokenLogin(ctx context.Context, allowCookie bool) (*session, error) {
	form := url.Values{
		"user": {c.Config.User},
		"pass": {c.Config.Password},
	}
	resp, err := c.do(ctx, loginPath, form, nil)
	if err != nil {
		return nil, err
	}

	var reply models.LoginResponse
	if resp.JSON {
		if err := resp.Decode(&reply); err != nil {
			return nil, err
		}
	}
	if reply.AccessToken != "" {
		return &session{mode: AuthToken, token: reply.AccessToken}, nil
	}
	if allowCookie {
		if cookies := sessionCookies(resp.Cookies); len(cookies) > 0 {
			return &session{mode: AuthCookie, cookies: cookies}, nil
		}
	}
	return nil, errNoToken
}

// cookieLogin posts the web console login form. A reply without cookies is
// treated as a hiccup and retried after LoginRetryDelay.
func (c *ZoneMinderClient) cookieLogin(ctx context.Context) (*session, error) {
	form := url.Values{
		"action":   {"login"},
		"view":     {"console"},
		"username": {c.Config.User},
		"password": {c.Config.Password},
	}

	for attempt := 0; ; attempt++ {
		resp, err := c.do(ctx, loginPagePath, form, nil)
		if err != nil {
			return nil, err
		}
		if cookies := sessionCookies(resp.Cookies); len(cookies) > 0 {
			return &session{mode: AuthCookie, cookies: cookies}, nil
		}
		if attempt >= c.Config.LoginRetries {
			return nil, ErrNoSession
		}

		c.log.Debug().Int("attempt", attempt+1).Dur("delay", c.Config.LoginRetryDelay).Msg("login reply carried no cookies, retrying")
		timer := time.NewTimer(c.Config.LoginRetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// sessionCookies keeps the last value set for each cookie name and drops
// cookies the server is deleting.
func sessionCookies(set []*http.Cookie) []*http.Cookie {
	var out []*http.Cookie
	index := make(map[string]int)
	for _, ck := range set {
		if ck.Name == "" || ck.MaxAge < 0 || ck.Value == "deleted" {
			continue
		}
		kept := &http.Cookie{Name: ck.Name, Value: ck.Value}
		if i, ok := index[ck.Name]; ok {
			out[i] = kept
			continue
		}
		index[ck.Name] = len(out)
		out = append(out, kept)
	}
	return out
}

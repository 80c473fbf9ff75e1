package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSession is returned when a login exchange succeeded at the HTTP level
// but left nothing to authenticate later requests with.
var ErrNoSession = errors.New("login returned no usable session")

// errNoToken lets auto mode tell "token auth unsupported" from "bad credentials".
var errNoToken = errors.New("login reply carried no access token")

// ConfigurationError reports a missing or invalid client option.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration: %s must be supplied", e.Field)
	}
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// AuthenticationError wraps whatever made a login fail.
type AuthenticationError struct {
	Mode AuthMode
	Err  error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication (%s) failed: %v", e.Mode, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// TransportError is a connection-level failure; no response was read.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a reply the server marked as failed, either with an HTTP error
// status or with a {"success": false} body. Payload holds the body verbatim.
type APIError struct {
	StatusCode int
	Payload    []byte
}

func (e *APIError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("api error (status %d)", e.StatusCode)
}

// Message digs the human readable reason out of the ZoneMinder error envelope:
// {"success":false,"data":{"name":"...","message":"..."}}
func (e *APIError) Message() string {
	var envelope struct {
		Data struct {
			Name    string `json:"name"`
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(e.Payload, &envelope); err != nil {
		return truncate(string(e.Payload), 200)
	}
	if envelope.Data.Message != "" {
		return envelope.Data.Message
	}
	return envelope.Data.Name
}

// IsAuthError reports whether err means the session was rejected.
func IsAuthError(err error) bool {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

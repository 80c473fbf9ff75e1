package models

// LoginResponse is returned by POST /api/host/login.json.
// Servers without token auth omit AccessToken and answer with Credentials plus a session cookie.
type LoginResponse struct {
	AccessToken        string     `json:"access_token"`
	AccessTokenExpires FlexString `json:"access_token_expires"`
	RefreshToken       string     `json:"refresh_token"`
	Credentials        string     `json:"credentials"`
	Version            string     `json:"version"`
	APIVersion         string     `json:"apiversion"`
}

// Version is returned by GET /api/host/getVersion.json
type Version struct {
	Version    string `json:"version" yaml:"version"`
	APIVersion string `json:"apiversion" yaml:"apiversion"`
}

// DaemonStatus is returned by GET /api/host/daemonCheck.json
type DaemonStatus struct {
	Result FlexString `json:"result" yaml:"result"`
}

func (d DaemonStatus) Running() bool {
	return d.Result == "1"
}

// AlarmStatus is returned by the monitor alarm command endpoint.
type AlarmStatus struct {
	Status FlexString `json:"status" yaml:"status"`
	Output string     `json:"output,omitempty" yaml:"output,omitempty"`
}

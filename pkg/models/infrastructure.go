package models

// ServerListResponse wraps GET /api/servers.json
type ServerListResponse struct {
	Servers []struct {
		Server Server `json:"Server"`
	} `json:"servers"`
}

// Server is one node of a multi-server ZoneMinder install.
// Hostname is empty on single-server setups.
type Server struct {
	ID       FlexString `json:"Id" yaml:"id"`
	Name     string     `json:"Name" yaml:"name"`
	Hostname string     `json:"Hostname" yaml:"hostname"`
	Status   string     `json:"Status,omitempty" yaml:"status,omitempty"`
}

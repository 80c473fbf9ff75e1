package models

import "encoding/json"

// MonitorListResponse wraps GET /api/monitors.json
type MonitorListResponse struct {
	Monitors []struct {
		Monitor *Monitor `json:"Monitor"`
	} `json:"monitors"`
}

// Monitor is a camera source as configured on the server.
// The record keeps the exact JSON it was decoded from and marshals back to it,
// so callers listing monitors see every field the server sent.
type Monitor struct {
	ID       FlexString `json:"Id"`
	Name     string     `json:"Name"`
	ServerID FlexString `json:"ServerId"`
	Enabled  FlexString `json:"Enabled"`
	Sequence FlexString `json:"Sequence"`
	Function string     `json:"Function"`
	Type     string     `json:"Type"`

	raw json.RawMessage
}

func (m *Monitor) UnmarshalJSON(b []byte) error {
	type plain Monitor
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*m = Monitor(p)
	m.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (m Monitor) MarshalJSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	type plain Monitor
	return json.Marshal(plain(m))
}

// Raw returns the record as received, or nil for monitors built in code.
func (m Monitor) Raw() json.RawMessage {
	return m.raw
}

func (m Monitor) IsEnabled() bool {
	return m.Enabled == "1"
}

package models

import (
	"encoding/json"
	"testing"
)

func TestFlexStringDecodes(t *testing.T) {
	tests := []struct {
		in   string
		want FlexString
	}{
		{`"12"`, "12"},
		{`12`, "12"},
		{`true`, "1"},
		{`false`, "0"},
		{`null`, ""},
	}

	for _, tt := range tests {
		var got FlexString
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}

	var bad FlexString
	if err := json.Unmarshal([]byte(`{"a":1}`), &bad); err == nil {
		t.Error("expected an error for an object")
	}
}

func TestFlexStringInt(t *testing.T) {
	if got := FlexString(" 42 ").Int(); got != 42 {
		t.Errorf("Int() = %d, want 42", got)
	}
	if got := FlexString("abc").Int(); got != 0 {
		t.Errorf("Int() = %d, want 0", got)
	}
}

func TestMonitorKeepsRawRecord(t *testing.T) {
	in := `{"Id":"3","Name":"Door","Enabled":true,"Sequence":"2","Function":"Modect","Width":"1920"}`

	var m Monitor
	if err := json.Unmarshal([]byte(in), &m); err != nil {
		t.Fatal(err)
	}
	if !m.IsEnabled() || m.ID.Int() != 3 || m.Function != "Modect" {
		t.Errorf("unexpected monitor %+v", m)
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != in {
		t.Errorf("Marshal() = %s, want %s", out, in)
	}

	built := Monitor{ID: "1", Name: "x"}
	if built.Raw() != nil {
		t.Error("monitor built in code should have no raw record")
	}
	if _, err := json.Marshal(built); err != nil {
		t.Errorf("Marshal() of built monitor: %v", err)
	}
}

func TestDaemonStatusRunning(t *testing.T) {
	var d DaemonStatus
	if err := json.Unmarshal([]byte(`{"result":1}`), &d); err != nil {
		t.Fatal(err)
	}
	if !d.Running() {
		t.Error("expected running")
	}
}

package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"zmctl/pkg/models"
)

func TestPrintStructuredYAMLKeepsRawFields(t *testing.T) {
	yamlOutput = true
	t.Cleanup(func() { yamlOutput = false })

	var m models.Monitor
	if err := json.Unmarshal([]byte(`{"Id":"3","Name":"Door","Enabled":"1","Width":"1920"}`), &m); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := printStructured(&buf, []models.Monitor{m}); err != nil {
		t.Fatalf("printStructured() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`Id: "3"`, "Name: Door", `Width: "1920"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	cams := []models.Camera{{ID: 1, Name: "a", Sequence: 1, ImageURL: "http://x/zm/cgi-bin/nph-zms?monitor=1"}}
	if err := printStructured(&buf, cams); err != nil {
		t.Fatalf("printStructured() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"imageUrl": "http://x/zm/cgi-bin/nph-zms?monitor=1"`) {
		t.Errorf("unexpected JSON:\n%s", buf.String())
	}
}

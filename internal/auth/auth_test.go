package auth

import (
	"strconv"
	"testing"
)

func TestExtractAuthKey(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"stream url", `<img src="/zm/cgi-bin/nph-zms?mode=jpeg&monitor=1&auth=9f8e7d&connkey=123456"/>`, "9f8e7d"},
		{"first match wins", `auth=aaa&x=1 auth=bbb&y=2`, "aaa"},
		{"no terminator", `...&auth=abc`, ""},
		{"missing", `<html>login</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractAuthKey(tt.page); got != tt.want {
				t.Errorf("ExtractAuthKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewConnectionKey(t *testing.T) {
	for i := 0; i < 1000; i++ {
		key := NewConnectionKey()
		if len(key) != 6 {
			t.Fatalf("expected 6 digits, got %q", key)
		}
		if _, err := strconv.Atoi(key); err != nil {
			t.Fatalf("expected numeric key, got %q", key)
		}
	}
}

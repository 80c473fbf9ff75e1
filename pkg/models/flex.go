package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexString decodes JSON strings, numbers and booleans into a string.
// ZoneMinder releases disagree on whether ids and flags are quoted.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var flag bool
	if err := json.Unmarshal(b, &flag); err == nil {
		if flag {
			*f = "1"
		} else {
			*f = "0"
		}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	return fmt.Errorf("cannot decode %s into a string", b)
}

func (f FlexString) String() string {
	return string(f)
}

// Int returns the numeric value, or 0 when the value is not an integer.
func (f FlexString) Int() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return 0
	}
	return n
}

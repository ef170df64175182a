package constants

import "testing"

func TestGetCaseResultName(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{CASE_AC, "AC"},
		{CASE_WA, "WA"},
		{CASE_RE, "RE"},
		{CASE_TL, "TL"},
		{CASE_DE, "DE"},
		{CASE_OK, "OK"},
		{-1, "OT"},
		{42, "OT"},
	}
	for _, tt := range tests {
		if got := GetCaseResultName(tt.status); got != tt.want {
			t.Errorf("GetCaseResultName(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

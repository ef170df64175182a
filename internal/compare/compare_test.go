package compare

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		expected string
		actual   string
		want     bool
	}{
		{"trailing newline", Exact, "5", "5\n", true},
		{"trailing space", Exact, "5", "5 ", true},
		{"leading zero", Exact, "5", "05", false},
		{"case sensitive", Exact, "Yes", "YES", false},
		{"inner whitespace matters", Exact, "1 2", "1  2", false},
		{"multi line", Exact, "3\n4", "3\n4\n", true},
		{"crlf line endings not normalised", Exact, "3\n4", "3\r\n4", false},
		{"empty vs blank", Exact, "", " \n ", true},

		{"lines ignores trailing blanks", Lines, "1 2\n3", "1 2  \n3\t\n\n", true},
		{"lines keeps inner spaces", Lines, "1 2", "1  2", false},
		{"lines normalises crlf", Lines, "3\n4", "3\r\n4\r\n", true},
		{"lines extra line", Lines, "1", "1\n2", false},

		{"visible ignores all whitespace", Visible, "[0,1]", "[0, 1]\n", true},
		{"visible still compares chars", Visible, "[0,1]", "[1,0]", false},

		{"unknown mode is exact", Mode("weird"), "5", "5 ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.mode, tt.expected, tt.actual); got != tt.want {
				t.Errorf("Equal(%s, %q, %q) = %v, want %v", tt.mode, tt.expected, tt.actual, got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": Exact, "exact": Exact, "LINES": Lines, " visible ": Visible} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("numeric"); err == nil {
		t.Error("ParseMode(numeric) should fail")
	}
}

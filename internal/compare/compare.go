// Package compare decides whether a solution's output matches the expected text.
package compare

import (
	"fmt"
	"strings"
	"unicode"
)

// Mode selects a comparison rule.
type Mode string

const (
	// Exact 两边各自去除首尾空白后逐字节比较，区分大小写。
	Exact Mode = "exact"
	// Lines 忽略行尾的空格/\t 以及末尾的空行。
	Lines Mode = "lines"
	// Visible 忽略所有空白字符，只比较可见字符。
	Visible Mode = "visible"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return Exact, nil
	case Exact, Lines, Visible:
		return m, nil
	default:
		return "", fmt.Errorf("unknown compare mode %q (want exact, lines or visible)", s)
	}
}

// Equal compares expected and actual under mode. Unknown modes fall back to Exact.
func Equal(mode Mode, expected, actual string) bool {
	switch mode {
	case Lines:
		return equalLines(expected, actual)
	case Visible:
		return extractVisibleChars(expected) == extractVisibleChars(actual)
	default:
		return strings.TrimSpace(expected) == strings.TrimSpace(actual)
	}
}

func equalLines(expected, actual string) bool {
	a, b := meaningfulLines(expected), meaningfulLines(actual)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// meaningfulLines 去除每行行尾的空格和 \t，并截断尾部空行。
func meaningfulLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t'
		})
	}
	last := len(lines) - 1
	for last >= 0 && lines[last] == "" {
		last--
	}
	return lines[:last+1]
}

// extractVisibleChars 从字符串中提取所有可见字符。
func extractVisibleChars(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

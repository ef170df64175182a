// Package store reads and writes the TestCases folder of a workspace:
//
//	<root>/TestCases/input_<N>.txt
//	<root>/TestCases/output_<N>.txt
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sempr/cph-go/pkg/constants"
)

// ErrMissingOutput is returned by Load when input_N.txt has no output_N.txt.
var ErrMissingOutput = errors.New("missing output file")

// TestCase is one stored input / expected output pair.
type TestCase struct {
	Index    int
	Input    string
	Expected string
}

// Pair locates the two files of case Index. OutputPath is always the derived
// sibling name, whether or not the file exists.
type Pair struct {
	Index      int
	InputPath  string
	OutputPath string
}

// Dir returns the store folder of a workspace.
func Dir(root string) string {
	return filepath.Join(root, constants.TestCaseDir)
}

func InputName(n int) string {
	return constants.InputPrefix + strconv.Itoa(n) + constants.CaseSuffix
}

func OutputName(n int) string {
	return constants.OutputPrefix + strconv.Itoa(n) + constants.CaseSuffix
}

// ParseIndex extracts N from input_N.txt or output_N.txt. N must be a
// positive decimal integer.
func ParseIndex(name string) (int, bool) {
	var rest string
	switch {
	case strings.HasPrefix(name, constants.InputPrefix):
		rest = strings.TrimPrefix(name, constants.InputPrefix)
	case strings.HasPrefix(name, constants.OutputPrefix):
		rest = strings.TrimPrefix(name, constants.OutputPrefix)
	default:
		return 0, false
	}
	if !strings.HasSuffix(rest, constants.CaseSuffix) {
		return 0, false
	}
	digits := strings.TrimSuffix(rest, constants.CaseSuffix)
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// List scans the store of root and pairs every input file with its output
// file, in ascending index order. A missing or unreadable folder is an error.
func List(root string) ([]Pair, error) {
	dir := Dir(root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read test case folder %s: %w", dir, err)
	}

	var pairs []Pair
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), constants.InputPrefix) {
			continue
		}
		n, ok := ParseIndex(entry.Name())
		if !ok {
			slog.Debug("skip unrecognised input file", "name", entry.Name())
			continue
		}
		pairs = append(pairs, Pair{
			Index:      n,
			InputPath:  filepath.Join(dir, entry.Name()),
			OutputPath: filepath.Join(dir, OutputName(n)),
		})
	}

	// input_10 必须排在 input_2 之后，按数字排序而不是按文件名
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Index < pairs[j].Index })
	slog.Debug("test cases paired", "dir", dir, "pairs", len(pairs))
	return pairs, nil
}

// Load reads both files of p. Expected is trimmed; Input is kept verbatim.
func Load(p Pair) (TestCase, error) {
	tc := TestCase{Index: p.Index}

	out, err := os.ReadFile(p.OutputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tc, fmt.Errorf("case %d: %w: %s", p.Index, ErrMissingOutput, filepath.Base(p.OutputPath))
		}
		return tc, fmt.Errorf("case %d: read %s: %w", p.Index, p.OutputPath, err)
	}
	in, err := os.ReadFile(p.InputPath)
	if err != nil {
		return tc, fmt.Errorf("case %d: read %s: %w", p.Index, p.InputPath, err)
	}

	tc.Input = string(in)
	tc.Expected = strings.TrimSpace(string(out))
	return tc, nil
}

// Save writes cases as input_<i+1>.txt / output_<i+1>.txt, creating the
// folder if needed and overwriting files with the same index.
func Save(root string, cases []TestCase) error {
	dir := Dir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create test case folder: %w", err)
	}
	for i, tc := range cases {
		n := i + 1
		if err := os.WriteFile(filepath.Join(dir, InputName(n)), []byte(tc.Input), 0644); err != nil {
			return fmt.Errorf("write input %d: %w", n, err)
		}
		if err := os.WriteFile(filepath.Join(dir, OutputName(n)), []byte(tc.Expected), 0644); err != nil {
			return fmt.Errorf("write output %d: %w", n, err)
		}
	}
	slog.Info("test cases saved", "dir", dir, "count", len(cases))
	return nil
}

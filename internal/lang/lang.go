// Package lang holds the per-language build and run command templates.
package lang

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sempr/cph-go/internal/executor"
	"github.com/sempr/cph-go/pkg/constants"
)

//go:embed defaults.toml
var defaultTable []byte

// ErrUnsupportedLanguage is returned by Lookup for names missing from the table.
var ErrUnsupportedLanguage = errors.New("unsupported language")

type CmdInfo struct {
	Compile string `toml:"compile"`
	Run     string `toml:"run"`
}

// Profile describes how to build and run solution.<Suffix>.
type Profile struct {
	Name     string  `toml:"name"`
	Suffix   string  `toml:"suffix"`
	Class    string  `toml:"class"`
	Artifact string  `toml:"artifact"`
	Cmd      CmdInfo `toml:"cmd"`
}

type langConfigs struct {
	Lang []Profile `toml:"lang"`
}

// NeedsBuild reports whether a compile step runs before every run step.
func (p Profile) NeedsBuild() bool {
	return p.Cmd.Compile != ""
}

// SourceFile is the solution file name, e.g. solution.cpp.
func (p Profile) SourceFile() string {
	return constants.SolutionStem + "." + p.Suffix
}

// CommandLine renders the shell line for one execution. source is the
// solution path and dir the build directory owned by the current run. When
// stdinFile is set the run step reads it through a redirect.
func (p Profile) CommandLine(source, dir, stdinFile string) string {
	artifact := dir
	if p.Artifact != "" {
		artifact = filepath.Join(dir, p.Artifact)
	}
	r := strings.NewReplacer(
		"{source}", executor.Quote(source),
		"{artifact}", executor.Quote(artifact),
		"{dir}", executor.Quote(dir),
		"{class}", p.Class,
	)

	run := r.Replace(p.Cmd.Run)
	if stdinFile != "" {
		run += " < " + executor.Quote(stdinFile)
	}
	if !p.NeedsBuild() {
		return run
	}
	return r.Replace(p.Cmd.Compile) + " && " + run
}

// Table maps language names to profiles.
type Table struct {
	profiles map[string]Profile
}

// Default returns the built-in table: cpp, py, java and js.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Errorf("built-in language table: %w", err))
	}
	return t
}

// Parse reads a TOML table of [[lang]] entries.
func Parse(data []byte) (*Table, error) {
	var cfg langConfigs
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse language table: %w", err)
	}

	t := &Table{profiles: make(map[string]Profile, len(cfg.Lang))}
	for _, p := range cfg.Lang {
		p.Name = strings.TrimSpace(p.Name)
		switch {
		case p.Name == "":
			return nil, fmt.Errorf("language entry missing name")
		case p.Suffix == "":
			return nil, fmt.Errorf("language %q missing suffix", p.Name)
		case p.Cmd.Run == "":
			return nil, fmt.Errorf("language %q missing run command", p.Name)
		}
		if _, exists := t.profiles[p.Name]; exists {
			return nil, fmt.Errorf("duplicate language %q", p.Name)
		}
		t.profiles[p.Name] = p
	}
	return t, nil
}

// Load returns the built-in table merged with <root>/.cph/langs.toml when
// that file exists.
func Load(root string) (*Table, error) {
	t := Default()
	path := filepath.Join(root, constants.ConfigDir, constants.LangOverrides)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return t, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Merge(override)
	return t, nil
}

// Merge copies every profile of other into t, replacing same-named entries.
func (t *Table) Merge(other *Table) {
	for name, p := range other.profiles {
		t.profiles[name] = p
	}
}

func (t *Table) Lookup(name string) (Profile, error) {
	p, ok := t.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (have %s)", ErrUnsupportedLanguage, name, strings.Join(t.Names(), ", "))
	}
	return p, nil
}

// Names lists the languages in the table, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.profiles))
	for name := range t.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

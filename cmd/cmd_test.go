package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sempr/cph-go/internal/executor"
	"github.com/sempr/cph-go/internal/lang"
	"github.com/sempr/cph-go/internal/scrape"
	"github.com/sempr/cph-go/internal/store"
	"github.com/sempr/cph-go/pkg/models"
)

// echoExecutor answers every command with the same stdout.
type echoExecutor struct {
	stdout string
	calls  int
}

func (e *echoExecutor) Execute(ctx context.Context, c executor.Command) executor.Result {
	e.calls++
	return executor.Result{Stdout: e.stdout, Succeeded: true}
}

func newWorkspace(t *testing.T, outputs ...string) string {
	t.Helper()
	root := t.TempDir()
	cases := make([]store.TestCase, len(outputs))
	for i, out := range outputs {
		cases[i] = store.TestCase{Index: i + 1, Input: fmt.Sprintf("%d\n", i), Expected: out}
	}
	if len(cases) > 0 {
		if err := store.Save(root, cases); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestReadManualInput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(file, []byte("5 6\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     models.RunArgs
		inputSet bool
		stdin    string
		want     *string
	}{
		{"none", models.RunArgs{}, false, "", nil},
		{"inline", models.RunArgs{Input: "1 2"}, true, "", ptr("1 2")},
		{"explicit empty inline", models.RunArgs{}, true, "", ptr("")},
		{"file", models.RunArgs{InputFile: file}, false, "", ptr("5 6\n")},
		{"prompt", models.RunArgs{Prompt: true}, false, "7\n", ptr("7\n")},
		{"prompt dismissed", models.RunArgs{Prompt: true}, false, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompt bytes.Buffer
			got, err := readManualInput(&tt.args, tt.inputSet, strings.NewReader(tt.stdin), &prompt)
			if err != nil {
				t.Fatalf("readManualInput: %v", err)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("got %q, want no manual run", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("got %v, want %q", got, *tt.want)
			}
			if tt.args.Prompt && prompt.Len() == 0 {
				t.Error("prompt was not shown")
			}
		})
	}

	args := models.RunArgs{InputFile: filepath.Join(t.TempDir(), "missing.txt")}
	if _, err := readManualInput(&args, false, strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Error("missing input file should fail")
	}
}

func ptr(s string) *string { return &s }

func TestRunSolutionConsole(t *testing.T) {
	root := newWorkspace(t, "42", "42")
	var stdout, stderr bytes.Buffer
	args := &models.RunArgs{Language: "py", Workspace: root, Compare: "exact", Strict: true}

	if err := runSolution(context.Background(), args, nil, &echoExecutor{stdout: "42"}, &stdout, &stderr); err != nil {
		t.Fatalf("runSolution: %v", err)
	}
	want := "Test case 1 passed!\nTest case 2 passed!\nAll saved test cases passed!\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunSolutionStrict(t *testing.T) {
	root := newWorkspace(t, "42", "41")
	var stdout, stderr bytes.Buffer
	args := &models.RunArgs{Language: "py", Workspace: root, Compare: "exact"}

	if err := runSolution(context.Background(), args, nil, &echoExecutor{stdout: "42"}, &stdout, &stderr); err != nil {
		t.Fatalf("non-strict run should succeed: %v", err)
	}
	if !strings.Contains(stderr.String(), "Test case 2 failed. Expected: 41, Got: 42") {
		t.Errorf("stderr = %q", stderr.String())
	}

	args.Strict = true
	err := runSolution(context.Background(), args, nil, &echoExecutor{stdout: "42"}, &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.Is(err, errNotAllPassed) {
		t.Errorf("err = %v, want errNotAllPassed", err)
	}
}

func TestRunSolutionJSON(t *testing.T) {
	root := newWorkspace(t, "42")
	var stdout, stderr bytes.Buffer
	args := &models.RunArgs{Language: "py", Workspace: root, Compare: "exact", JSON: true}
	exec := &echoExecutor{stdout: "42"}

	if err := runSolution(context.Background(), args, ptr("9"), exec, &stdout, &stderr); err != nil {
		t.Fatalf("runSolution: %v", err)
	}
	var report models.RunReport
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("stdout is not a JSON report: %v\n%s", err, stdout.String())
	}
	if !report.AllStoredCasesPassed || len(report.Cases) != 1 || report.Manual == nil || report.Manual.Actual != "42" {
		t.Errorf("report = %+v", report)
	}
	if exec.calls != 2 {
		t.Errorf("executor called %d times, want 2", exec.calls)
	}
}

func TestRunSolutionPreconditions(t *testing.T) {
	root := newWorkspace(t, "1")
	tests := []struct {
		name string
		args models.RunArgs
		want error
	}{
		{"unsupported language", models.RunArgs{Language: "cobol", Workspace: root}, lang.ErrUnsupportedLanguage},
		{"bad compare mode", models.RunArgs{Language: "py", Workspace: root, Compare: "numeric"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &echoExecutor{}
			err := runSolution(context.Background(), &tt.args, nil, exec, &bytes.Buffer{}, &bytes.Buffer{})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if exec.calls != 0 {
				t.Errorf("executor called %d times", exec.calls)
			}
		})
	}
}

func TestScaffoldSolution(t *testing.T) {
	root := t.TempDir()
	var out bytes.Buffer
	args := &models.ScaffoldArgs{Language: "cpp", Workspace: root}

	if err := scaffoldSolution(args, &out); err != nil {
		t.Fatalf("scaffoldSolution: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "solution.cpp")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Created") || !strings.Contains(out.String(), "No test cases yet") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := scaffoldSolution(args, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("second call output = %q", out.String())
	}

	if err := scaffoldSolution(&models.ScaffoldArgs{Language: "cobol", Workspace: root}, &out); !errors.Is(err, lang.ErrUnsupportedLanguage) {
		t.Errorf("err = %v, want ErrUnsupportedLanguage", err)
	}
}

func TestFetchExamples(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			fmt.Fprint(w, "<html><body><p>nothing</p></body></html>")
			return
		}
		fmt.Fprint(w, "<html><body><pre>Input: 1 2\nOutput: 3\n</pre><pre>Input: 5 5\nOutput: 10</pre></body></html>")
	}))
	defer srv.Close()

	root := t.TempDir()
	client := scrape.New(5 * time.Second)
	var out bytes.Buffer
	if err := fetchExamples(context.Background(), client, srv.URL+"/p/1", &models.FetchArgs{Workspace: root}, &out); err != nil {
		t.Fatalf("fetchExamples: %v", err)
	}
	pairs, err := store.List(root)
	if err != nil || len(pairs) != 2 {
		t.Fatalf("List = %v, %v", pairs, err)
	}
	tc, err := store.Load(pairs[1])
	if err != nil || tc.Input != "5 5" || tc.Expected != "10" {
		t.Errorf("case 2 = %+v, %v", tc, err)
	}

	err = fetchExamples(context.Background(), client, srv.URL+"/empty", &models.FetchArgs{Workspace: t.TempDir()}, &out)
	if !errors.Is(err, errNoExamples) {
		t.Errorf("err = %v, want errNoExamples", err)
	}
}

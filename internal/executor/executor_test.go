//go:build unix

package executor

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestShellExecute(t *testing.T) {
	tests := []struct {
		name       string
		cmd        Command
		wantOK     bool
		wantStdout string
		wantDetail string
		wantExit   int
	}{
		{
			name:       "success trims stdout",
			cmd:        Command{Line: "printf '  hello\\n\\n'"},
			wantOK:     true,
			wantStdout: "hello",
		},
		{
			name:       "stdin is fed to the process",
			cmd:        Command{Line: "cat", Stdin: strings.NewReader("3\n4\n")},
			wantOK:     true,
			wantStdout: "3\n4",
		},
		{
			name:       "non-zero exit captures stderr",
			cmd:        Command{Line: "echo partial; echo boom >&2; exit 3"},
			wantOK:     false,
			wantDetail: "boom",
			wantExit:   3,
		},
		{
			name:       "silent failure falls back to exit status",
			cmd:        Command{Line: "exit 1"},
			wantOK:     false,
			wantDetail: "exit status 1",
			wantExit:   1,
		},
		{
			name:       "chained build step failure stops the run step",
			cmd:        Command{Line: "false && echo never"},
			wantOK:     false,
			wantDetail: "exit status 1",
			wantExit:   1,
		},
	}

	sh := NewShell()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := sh.Execute(context.Background(), tt.cmd)
			if res.Succeeded != tt.wantOK {
				t.Fatalf("Succeeded = %v, want %v (detail %q)", res.Succeeded, tt.wantOK, res.ErrorDetail)
			}
			if res.Stdout != tt.wantStdout {
				t.Errorf("Stdout = %q, want %q", res.Stdout, tt.wantStdout)
			}
			if res.ErrorDetail != tt.wantDetail {
				t.Errorf("ErrorDetail = %q, want %q", res.ErrorDetail, tt.wantDetail)
			}
			if res.ExitCode != tt.wantExit {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tt.wantExit)
			}
		})
	}
}

func TestShellExecuteDir(t *testing.T) {
	dir := t.TempDir()
	res := NewShell().Execute(context.Background(), Command{Line: "pwd -P", Dir: dir})
	if !res.Succeeded {
		t.Fatalf("pwd failed: %s", res.ErrorDetail)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stdout != want {
		t.Errorf("pwd = %q, want %q", res.Stdout, want)
	}
}

func TestShellExecuteTimeoutKillsGroup(t *testing.T) {
	start := time.Now()
	res := NewShell().Execute(context.Background(), Command{
		Line:    "sleep 30 & sleep 30; wait",
		Timeout: 200 * time.Millisecond,
	})
	if res.Succeeded {
		t.Fatal("expected failure on timeout")
	}
	if !res.TimedOut {
		t.Errorf("TimedOut = false, want true")
	}
	if !strings.Contains(res.ErrorDetail, "time limit exceeded") {
		t.Errorf("ErrorDetail = %q", res.ErrorDetail)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("execution took %s, process group was not killed", elapsed)
	}
}

func TestShellExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	res := NewShell().Execute(ctx, Command{Line: "sleep 30"})
	if res.Succeeded || res.TimedOut {
		t.Fatalf("got Succeeded=%v TimedOut=%v, want a cancelled failure", res.Succeeded, res.TimedOut)
	}
	if res.ErrorDetail != "execution cancelled" {
		t.Errorf("ErrorDetail = %q", res.ErrorDetail)
	}
}

func TestShellExecuteSpawnFailure(t *testing.T) {
	res := NewShell().Execute(context.Background(), Command{Line: "true", Dir: "/definitely/not/here"})
	if res.Succeeded {
		t.Fatal("expected spawn failure")
	}
	if !strings.HasPrefix(res.ErrorDetail, "failed to start command") {
		t.Errorf("ErrorDetail = %q", res.ErrorDetail)
	}
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		"":                 "''",
		"plain":            "plain",
		"/tmp/a b/sol.py":  "'/tmp/a b/sol.py'",
		"it's":             `'it'\''s'`,
		"/home/u/solution": "/home/u/solution",
	}
	for in, want := range tests {
		if got := Quote(in); got != want {
			t.Errorf("Quote(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	word := "a 'b' $c `d`"
	res := NewShell().Execute(context.Background(), Command{Line: "printf %s " + Quote(word)})
	if res.Stdout != word {
		t.Errorf("shell saw %q, want %q", res.Stdout, word)
	}
}

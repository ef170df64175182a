// Package runner runs a workspace's solution file against its saved test
// cases and, optionally, one manual input.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sempr/cph-go/internal/compare"
	"github.com/sempr/cph-go/internal/executor"
	"github.com/sempr/cph-go/internal/lang"
	"github.com/sempr/cph-go/internal/store"
	"github.com/sempr/cph-go/pkg/constants"
	"github.com/sempr/cph-go/pkg/models"
)

// Precondition errors. Run returns them before any process is spawned.
var (
	ErrNoWorkspace      = errors.New("no workspace folder")
	ErrStoreUnavailable = errors.New("test case folder unavailable")
)

// Options are shared by every run of a Runner.
type Options struct {
	// Languages is the profile table. Nil means lang.Load(workspace) per run.
	Languages *lang.Table
	// Timeout bounds each command. Zero means no limit.
	Timeout time.Duration
	Compare compare.Mode
}

// Request is one run. Manual, when non-nil, is fed to one extra execution
// after the saved cases.
type Request struct {
	Language  string
	Workspace string
	Manual    *string
	// Timeout overrides Options.Timeout when positive.
	Timeout time.Duration
}

type Runner struct {
	exec   executor.Executor
	notify Notifier
	opts   Options

	newRunID func() string
	cleanup  func(buildDir string)
}

func New(exec executor.Executor, notify Notifier, opts Options) *Runner {
	if notify == nil {
		notify = Discard{}
	}
	if opts.Compare == "" {
		opts.Compare = compare.Exact
	}
	return &Runner{
		exec:     exec,
		notify:   notify,
		opts:     opts,
		newRunID: uuid.NewString,
		cleanup:  removeBuildDir,
	}
}

// runConfig 保存一次运行中所有测试点共用的参数。
type runConfig struct {
	profile  lang.Profile
	root     string
	source   string
	buildDir string
	timeout  time.Duration
}

// Run evaluates every saved case in ascending index order, then the manual
// input if any. Precondition failures abort with an error wrapping
// ErrNoWorkspace, lang.ErrUnsupportedLanguage or ErrStoreUnavailable. Case
// failures are reported in the returned RunReport, not as errors.
func (r *Runner) Run(ctx context.Context, req Request) (*models.RunReport, error) {
	if strings.TrimSpace(req.Workspace) == "" {
		r.notify.Error("Open a workspace folder to run test cases.")
		return nil, ErrNoWorkspace
	}
	root, err := filepath.Abs(req.Workspace)
	if err != nil {
		r.notify.Error(fmt.Sprintf("Invalid workspace %q: %v", req.Workspace, err))
		return nil, fmt.Errorf("%w: %v", ErrNoWorkspace, err)
	}

	table := r.opts.Languages
	if table == nil {
		if table, err = lang.Load(root); err != nil {
			r.notify.Error(fmt.Sprintf("Invalid language table: %v", err))
			return nil, err
		}
	}
	profile, err := table.Lookup(req.Language)
	if err != nil {
		r.notify.Error("Unsupported language")
		return nil, err
	}

	pairs, err := store.List(root)
	if err != nil {
		r.notify.Error(fmt.Sprintf("Test case folder %s is missing or unreadable.", store.Dir(root)))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	rc := runConfig{
		profile: profile,
		root:    root,
		source:  filepath.Join(root, profile.SourceFile()),
		timeout: r.opts.Timeout,
	}
	if req.Timeout > 0 {
		rc.timeout = req.Timeout
	}

	report := &models.RunReport{
		RunID:      r.newRunID(),
		Language:   profile.Name,
		Workspace:  root,
		Cases:      make([]models.CaseResult, 0, len(pairs)),
		RunSummary: models.RunSummary{AllStoredCasesPassed: true},
	}
	logger := slog.With("run_id", report.RunID, "lang", profile.Name)

	// 每次运行使用独立的构建目录，并发运行之间不会共享可执行文件
	rc.buildDir = filepath.Join(root, constants.BuildDir, report.RunID)
	defer r.cleanup(rc.buildDir)

	if _, err := os.Stat(rc.source); err != nil {
		logger.Warn("solution file not found", "path", rc.source)
	}
	if profile.NeedsBuild() {
		if err := os.MkdirAll(rc.buildDir, 0755); err != nil {
			logger.Warn("create build directory failed", "path", rc.buildDir, "err", err)
		}
	}
	logger.Info("running saved cases", "workspace", root, "cases", len(pairs))

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			logger.Warn("run cancelled", "err", err)
			return report, err
		}
		res := r.runCase(ctx, rc, pair)
		report.Cases = append(report.Cases, res)
		r.reportCase(res)
		if res.Status != constants.CASE_AC {
			report.AllStoredCasesPassed = false
			logger.Warn("case failed", "case", res.Index, "result", constants.GetCaseResultName(res.Status))
		} else {
			logger.Info("case passed", "case", res.Index)
		}
	}

	switch {
	case req.Manual != nil:
		res := r.runManual(ctx, rc, *req.Manual)
		report.Manual = &res
		if res.Status == constants.CASE_OK {
			r.notify.Info("Manual input output:\n" + res.Actual)
		} else {
			r.notify.Error("Manual input failed: " + res.Detail)
		}
	case len(pairs) == 0:
		r.notify.Info(fmt.Sprintf("No saved test cases in %s.", store.Dir(root)))
	case report.AllStoredCasesPassed:
		r.notify.Info("All saved test cases passed!")
	}

	logger.Info("run finished", "all_passed", report.AllStoredCasesPassed)
	return report, nil
}

func (r *Runner) runCase(ctx context.Context, rc runConfig, pair store.Pair) models.CaseResult {
	res := models.CaseResult{Index: pair.Index}

	tc, err := store.Load(pair)
	if err != nil {
		res.Status = constants.CASE_DE
		res.Detail = err.Error()
		return res
	}
	res.Expected = tc.Expected

	out := r.exec.Execute(ctx, executor.Command{
		Line:    rc.profile.CommandLine(rc.source, rc.buildDir, pair.InputPath),
		Dir:     rc.root,
		Timeout: rc.timeout,
	})
	res.Time = int(out.Duration / time.Millisecond)
	if !out.Succeeded {
		res.Status = constants.CASE_RE
		if out.TimedOut {
			res.Status = constants.CASE_TL
		}
		res.Detail = out.ErrorDetail
		return res
	}

	res.Actual = out.Stdout
	if compare.Equal(r.opts.Compare, tc.Expected, out.Stdout) {
		res.Status = constants.CASE_AC
	} else {
		res.Status = constants.CASE_WA
	}
	return res
}

func (r *Runner) runManual(ctx context.Context, rc runConfig, input string) models.CaseResult {
	out := r.exec.Execute(ctx, executor.Command{
		Line:    rc.profile.CommandLine(rc.source, rc.buildDir, ""),
		Dir:     rc.root,
		Stdin:   strings.NewReader(input),
		Timeout: rc.timeout,
	})
	res := models.CaseResult{Time: int(out.Duration / time.Millisecond)}
	switch {
	case out.Succeeded:
		res.Status = constants.CASE_OK
		res.Actual = out.Stdout
	case out.TimedOut:
		res.Status = constants.CASE_TL
		res.Detail = out.ErrorDetail
	default:
		res.Status = constants.CASE_RE
		res.Detail = out.ErrorDetail
	}
	return res
}

func (r *Runner) reportCase(res models.CaseResult) {
	switch res.Status {
	case constants.CASE_AC:
		r.notify.Info(fmt.Sprintf("Test case %d passed!", res.Index))
	case constants.CASE_WA:
		r.notify.Error(fmt.Sprintf("Test case %d failed. Expected: %s, Got: %s", res.Index, res.Expected, res.Actual))
	case constants.CASE_TL:
		r.notify.Error(fmt.Sprintf("Test case %d timed out: %s", res.Index, res.Detail))
	case constants.CASE_DE:
		r.notify.Error(fmt.Sprintf("Test case %d is incomplete: %s", res.Index, res.Detail))
	default:
		r.notify.Error(fmt.Sprintf("Test case %d error: %s", res.Index, res.Detail))
	}
}

// removeBuildDir deletes the per-run build directory and, when it is left
// empty, the shared parent. Absent paths are not an error.
func removeBuildDir(buildDir string) {
	if err := os.RemoveAll(buildDir); err != nil {
		slog.Warn("清理构建目录失败", "path", buildDir, "err", err)
	}
	// 其他并发运行仍在使用时 parent 非空，Remove 失败即可忽略
	_ = os.Remove(filepath.Dir(buildDir))
}

package cmd

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// 全局 logger，只会初始化一次
var (
	globalLogger *slog.Logger
	once         sync.Once
	logOutput    io.Writer = os.Stderr
)

// Init 初始化全局 slog Logger
// 日志写到 stderr，不和测试结果混在一起；默认只输出 warn 以上
// 如果在 systemd 下自动去掉时间戳
func Init(debug bool) *slog.Logger {
	once.Do(func() {
		level := slog.LevelWarn
		if debug {
			level = slog.LevelDebug
		}
		opts := &slog.HandlerOptions{
			AddSource: debug,
			Level:     level,
		}
		if isRunningUnderSystemd() {
			// 去掉时间字段
			opts.ReplaceAttr = removeTimeAttr
		}

		globalLogger = slog.New(slog.NewTextHandler(logOutput, opts))
		// 设置为全局默认 logger
		slog.SetDefault(globalLogger)
	})

	return globalLogger
}

// 判断是否在 systemd 下运行
func isRunningUnderSystemd() bool {
	_, ok := os.LookupEnv("INVOCATION_ID")
	return ok
}

// removeTimeAttr 用于删除时间字段
func removeTimeAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{} // 删除时间字段
	}
	return a
}

package models

import "time"

// RunArgs 是 run 子命令的参数。
type RunArgs struct {
	Language  string
	Workspace string
	Input     string
	InputFile string
	Prompt    bool
	Timeout   time.Duration
	Compare   string
	JSON      bool
	Strict    bool
}

type ScaffoldArgs struct {
	Language  string
	Workspace string
}

type FetchArgs struct {
	Workspace string
	Timeout   time.Duration
}

type DaemonArgs struct {
	Home  string
	Debug bool
	Once  bool
}

package models

// CaseResult 存储单个测试点的运行结果。
type CaseResult struct {
	// Index 是测试点编号，手动输入时为 0。
	Index int `json:"index"`
	// Status 是 constants.CASE_* 中的一个。
	Status int `json:"status"`
	// Expected 是 output_N.txt 去除首尾空白后的内容。
	Expected string `json:"expected,omitempty"`
	// Actual 是程序标准输出去除首尾空白后的内容。
	Actual string `json:"actual,omitempty"`
	// Detail 记录执行失败时捕获的 stderr 或数据错误信息。
	Detail string `json:"detail,omitempty"`
	// Time 是命令耗时（毫秒），包含编译时间。
	Time int `json:"time"`
}

// RunSummary 在存储测试点的循环中累积。
type RunSummary struct {
	AllStoredCasesPassed bool `json:"all_passed"`
}

// RunReport 聚合一次运行的全部结果。
type RunReport struct {
	RunID     string       `json:"run_id"`
	Language  string       `json:"language"`
	Workspace string       `json:"workspace"`
	Cases     []CaseResult `json:"cases"`
	Manual    *CaseResult  `json:"manual,omitempty"`
	RunSummary
}

// RunJob 是 daemon 从队列中取出的一次运行请求。
type RunJob struct {
	ID        int64   `json:"id"`
	Workspace string  `json:"workspace"`
	Language  string  `json:"language"`
	Manual    *string `json:"manual,omitempty"`
	// TimeoutMs 为 0 时使用 daemon 配置的默认值。
	TimeoutMs int `json:"timeout_ms,omitempty"`
}

// JobReport 是写回队列的结果。
type JobReport struct {
	JobID  int64      `json:"job_id"`
	Error  string     `json:"error,omitempty"`
	Report *RunReport `json:"report,omitempty"`
}

package constants

const (
	CASE_AC = 0 // 答案正确
	CASE_WA = 1 // 答案错误
	CASE_RE = 2 // 运行错误 (编译失败也归于此)
	CASE_TL = 3 // 时间超限
	CASE_DE = 4 // 数据错误 (缺少 output 文件)
	CASE_OK = 5 // 手动输入运行完成，无比对
)

func GetCaseResultName(status int) string {
	var names = []string{"AC", "WA", "RE", "TL", "DE", "OK"}
	if status < 0 || status >= len(names) {
		return "OT"
	}
	return names[status]
}

// Default layout of a workspace.
const (
	TestCaseDir   = "TestCases"
	InputPrefix   = "input_"
	OutputPrefix  = "output_"
	CaseSuffix    = ".txt"
	SolutionStem  = "solution"
	BuildDir      = ".cph-build"
	ConfigDir     = ".cph"
	LangOverrides = "langs.toml"
)

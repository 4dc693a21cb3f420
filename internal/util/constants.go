package util

// 查询参数
const (
	QuerySessionIdentifier = "test_session_identifier"
)

// 汇总列表分页
const (
	DefaultSummaryLimit = 100
	MaxSummaryLimit     = 1000
)

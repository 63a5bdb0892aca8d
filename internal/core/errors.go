package core

import (
	"errors"
	"fmt"
)

// ConfigError 配置文件缺失、格式错误或凭据为空，发生在任何网络请求之前
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config error: %v", e.Err)
	}
	return fmt.Sprintf("config error (%s): %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// UsageError 命令行参数组合不合法
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// QueryError 单次 API 调用失败，由调度器在本地吞掉并记录日志
type QueryError struct {
	Op     string
	Target string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Target, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// InputFormatError 输入 CSV 缺少必需的列或无法解析
type InputFormatError struct {
	Path string
	Err  error
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Path, e.Err)
}

func (e *InputFormatError) Unwrap() error { return e.Err }

// OutputWriteError 结果文件无法写入；已经打印到终端的内容不受影响
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// ExitCode 参数错误返回 2，其余致命错误返回 1
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

package desensitize

import (
	"io"
)

// Writer 在写入下游前按 Hook 的规则脱敏
type Writer struct {
	writer io.Writer
	hook   *Hook
}

// NewWriter 创建脱敏 writer，hook 为 nil 时原样写入
func NewWriter(writer io.Writer, hook *Hook) *Writer {
	if hook == nil {
		hook = NewHook()
	}
	return &Writer{writer: writer, hook: hook}
}

// Write 实现 io.Writer 接口，成功时返回 len(p)
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 || w.hook.RuleCount() == 0 {
		return w.writer.Write(p)
	}

	line := string(p)
	masked := w.hook.Desensitize(line)
	if masked == line {
		return w.writer.Write(p)
	}

	if _, err := io.WriteString(w.writer, masked); err != nil {
		return 0, err
	}
	return len(p), nil
}

package writer

import (
	"fmt"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateMode 日志轮转模式
type RotateMode int

const (
	// RotateModeTime 按时间轮转
	RotateModeTime RotateMode = iota
	// RotateModeSize 按大小轮转
	RotateModeSize
)

// String 返回轮转模式的字符串表示
func (m RotateMode) String() string {
	switch m {
	case RotateModeTime:
		return "time"
	case RotateModeSize:
		return "size"
	default:
		return "unknown"
	}
}

// ParseRotateMode 解析轮转模式，接受 time / size
func ParseRotateMode(s string) (RotateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "time":
		return RotateModeTime, nil
	case "size":
		return RotateModeSize, nil
	default:
		return 0, fmt.Errorf("unknown rotate mode %q", s)
	}
}

// UnmarshalText 支持在配置文件中以字符串书写轮转模式
func (m *RotateMode) UnmarshalText(text []byte) error {
	mode, err := ParseRotateMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// MarshalText 实现 encoding.TextMarshaler
func (m RotateMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// timeRotateWriter 按时间轮转，当前文件以符号链接指向最新的分片
func timeRotateWriter(config RotateConfig) (*rotatelogs.RotateLogs, error) {
	writer, err := rotatelogs.New(
		config.pattern("%Y%m%d%H%M"),
		rotatelogs.WithLinkName(config.path()),
		rotatelogs.WithMaxAge(time.Duration(config.TimeRotateConfig.MaxAge)*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(config.TimeRotateConfig.RotationTime)*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create time rotate writer: %w", err)
	}
	return writer, nil
}

// sizeRotateWriter 按大小轮转
func sizeRotateWriter(config RotateConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   config.path(),
		MaxSize:    config.SizeRotateConfig.MaxSize,
		MaxBackups: config.SizeRotateConfig.MaxBackups,
		MaxAge:     config.SizeRotateConfig.MaxAge,
		Compress:   config.SizeRotateConfig.Compress,
	}
}

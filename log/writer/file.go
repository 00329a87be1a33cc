package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// RotateConfig 日志文件位置与轮转策略
type RotateConfig struct {
	Mode             RotateMode
	Filepath         string
	Filename         string
	FileExt          string
	TimeRotateConfig TimeRotateConfig
	SizeRotateConfig SizeRotateConfig
}

// TimeRotateConfig 按时间轮转，单位小时
type TimeRotateConfig struct {
	MaxAge       int
	RotationTime int
}

// SizeRotateConfig 按大小轮转
type SizeRotateConfig struct {
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // 天
	Compress   bool
}

// File 创建轮转文件 writer，日志目录不存在时自动创建
func File(config RotateConfig) (io.WriteCloser, error) {
	if config.Filename == "" {
		return nil, fmt.Errorf("log file name cannot be empty")
	}
	if config.FileExt == "" {
		config.FileExt = "log"
	}
	if config.Filepath != "" {
		if err := os.MkdirAll(config.Filepath, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	switch config.Mode {
	case RotateModeTime:
		return timeRotateWriter(config)
	case RotateModeSize:
		return sizeRotateWriter(config), nil
	default:
		return nil, fmt.Errorf("unsupported rotate mode: %v", config.Mode)
	}
}

// path 返回当前日志文件路径，如 log/clea.log
func (c RotateConfig) path() string {
	return filepath.Join(c.Filepath, c.Filename+"."+c.FileExt)
}

// pattern 返回按时间轮转的文件名模式，如 log/clea.%Y%m%d%H%M.log
func (c RotateConfig) pattern(layout string) string {
	return filepath.Join(c.Filepath, c.Filename+"."+layout+"."+c.FileExt)
}

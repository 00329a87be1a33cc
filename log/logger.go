package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/clea/core/tag"
	"github.com/kochabx/clea/log/desensitize"
	"github.com/kochabx/clea/log/writer"
)

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	desensitizeHook *desensitize.Hook
	closer          io.Closer // 用于资源清理
}

// Option 在构建时配置 Logger
type Option func(*Logger)

// WithLevel 设置最低输出级别
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.Level(level)
	}
}

// WithDesensitize 输出前经过 hook 脱敏
func WithDesensitize(hook *desensitize.Hook) Option {
	return func(l *Logger) {
		l.desensitizeHook = hook
	}
}

// GetDesensitizeHook 获取脱敏钩子
func (l *Logger) GetDesensitizeHook() *desensitize.Hook {
	return l.desensitizeHook
}

// Component 返回带 component 字段的子记录器，共享输出与资源
func (l *Logger) Component(name string) *Logger {
	return &Logger{
		Logger:          l.Logger.With().Str("component", name).Logger(),
		desensitizeHook: l.desensitizeHook,
	}
}

// Close 关闭日志记录器，释放资源
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func init() {
	// 初始化全局日志配置
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// newLogger 统一的 Logger 构建方法
func newLogger(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{}

	// 先收集选项确定是否脱敏
	for _, opt := range opts {
		opt(logger)
	}
	if logger.desensitizeHook != nil {
		w = desensitize.NewWriter(w, logger.desensitizeHook)
	}

	logger.Logger = zerolog.New(w).With().Timestamp().Logger()
	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

// New 创建新的 Logger 实例，输出到控制台
func New(opts ...Option) *Logger {
	return newLogger(writer.Console(), opts...)
}

// NewWriter 创建输出 JSON 到 w 的 Logger
func NewWriter(w io.Writer, opts ...Option) *Logger {
	return newLogger(w, opts...)
}

// NewFile 创建文件输出的 Logger
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	// 应用默认配置
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	// 创建文件 writer
	w, err := writer.File(c.toWriterConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create file writer: %w", err)
	}

	logger := newLogger(w, opts...)
	logger.closer = w

	return logger, nil
}

// NewMulti 创建同时输出到文件和控制台的 Logger
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	// 应用默认配置
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	// 创建文件 writer
	fw, err := writer.File(c.toWriterConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create file writer: %w", err)
	}

	// 创建多路输出
	multi := zerolog.MultiLevelWriter(fw, writer.Console())
	logger := newLogger(multi, opts...)
	logger.closer = fw

	return logger, nil
}

// NewFromConfig 根据配置创建 Logger，除非 Plaintext 为真，否则加载密钥材料脱敏规则
func NewFromConfig(c Config, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithLevel(level)}, opts...)
	if !c.Plaintext {
		opts = append(opts, WithDesensitize(desensitize.NewKeyMaterialHook()))
	}

	switch c.Output {
	case OutputFile:
		return NewFile(c.File, opts...)
	case OutputMulti:
		return NewMulti(c.File, opts...)
	default:
		return New(opts...), nil
	}
}

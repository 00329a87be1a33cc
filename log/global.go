package log

import (
	"github.com/kochabx/clea/log/desensitize"
)

// G 全局日志实例，默认写 stderr 并屏蔽密钥材料；命令行解析参数后替换
var G = New(WithDesensitize(desensitize.NewKeyMaterialHook()))

// SetGlobalLogger 替换全局日志记录器，nil 被忽略
func SetGlobalLogger(logger *Logger) {
	if logger != nil {
		G = logger
	}
}

// Component 返回全局日志的子记录器
func Component(name string) *Logger {
	return G.Component(name)
}

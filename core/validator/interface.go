package validator

import (
	"context"

	"github.com/go-playground/validator/v10"
)

// Validator 定义校验器接口
//
// 所有 Struct* 方法在校验失败时返回 errors.ValidationCode 类型的错误，
// 其中携带全部违规项，可通过 errors.Violations 读取。
type Validator interface {
	// Struct 校验结构体
	Struct(s any) error

	// StructCtx 带上下文校验结构体
	StructCtx(ctx context.Context, s any) error

	// StructExcept 校验结构体，跳过指定字段
	StructExcept(s any, fields ...string) error

	// StructPartial 仅校验指定字段
	StructPartial(s any, fields ...string) error

	// Var 校验单个变量
	Var(field any, tag string) error

	// RegisterRule 注册自定义规则及其英文提示
	RegisterRule(tag, message string, fn validator.Func) error

	// GetValidator 获取底层的validator实例
	GetValidator() *validator.Validate
}

// ValidationOption 校验器选项
type ValidationOption func(*validatorImpl)

// WithTagName 设置校验标签名
func WithTagName(tagName string) ValidationOption {
	return func(v *validatorImpl) {
		v.validator.SetTagName(tagName)
	}
}

// WithFieldNameTag 使用指定标签（如 json、mapstructure）作为违规项中的字段名
func WithFieldNameTag(tag string) ValidationOption {
	return func(v *validatorImpl) {
		v.fieldNameTag = tag
	}
}

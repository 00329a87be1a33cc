package validator

import (
	"strings"

	"github.com/kochabx/clea/errors"
)

// ErrorsToString 将违规项列表转换为字符串
func ErrorsToString(violations []errors.Violation, separator string) string {
	if len(violations) == 0 {
		return ""
	}

	if separator == "" {
		separator = "; "
	}

	messages := make([]string, 0, len(violations))
	for _, v := range violations {
		messages = append(messages, v.Message)
	}

	return strings.Join(messages, separator)
}

// GetFieldErrorMessage 获取指定字段的错误消息
func GetFieldErrorMessage(err error, field string) string {
	for _, v := range errors.Violations(err) {
		if v.Field == field {
			return v.Message
		}
	}
	return ""
}

// HasFieldError 检查是否存在指定字段的错误
func HasFieldError(err error, field string) bool {
	for _, v := range errors.Violations(err) {
		if v.Field == field {
			return true
		}
	}
	return false
}

// GetViolationsByConstraint 根据约束标签获取违规项
func GetViolationsByConstraint(err error, constraint string) []errors.Violation {
	var result []errors.Violation
	for _, v := range errors.Violations(err) {
		if v.Constraint == constraint {
			result = append(result, v)
		}
	}
	return result
}

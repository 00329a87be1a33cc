package desensitize

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
)

// Rule 一条脱敏规则
type Rule interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	// Process 返回脱敏后的 s
	Process(s string) string
}

type ruleState struct {
	name     string
	disabled atomic.Bool
}

func (r *ruleState) Name() string            { return r.name }
func (r *ruleState) Enabled() bool           { return !r.disabled.Load() }
func (r *ruleState) SetEnabled(enabled bool) { r.disabled.Store(!enabled) }

// ContentRule 对整行中匹配 pattern 的内容做替换
type ContentRule struct {
	ruleState
	pattern     *regexp.Regexp
	replacement string
}

// NewContentRule 创建内容规则，replacement 支持 $1 形式的分组引用
func NewContentRule(name, pattern, replacement string) (*ContentRule, error) {
	re, err := compile(name, pattern)
	if err != nil {
		return nil, err
	}
	return &ContentRule{
		ruleState:   ruleState{name: name},
		pattern:     re,
		replacement: replacement,
	}, nil
}

func (r *ContentRule) Process(s string) string {
	return r.pattern.ReplaceAllString(s, r.replacement)
}

// FieldRule 只改写 JSON 字符串字段 field 的值，键名与原有空白保持不变
type FieldRule struct {
	ruleState
	field       *regexp.Regexp
	value       *regexp.Regexp
	replacement string
}

// NewFieldRule 创建字段规则，pattern 作用于字段值
func NewFieldRule(name, fieldName, pattern, replacement string) (*FieldRule, error) {
	if fieldName == "" {
		return nil, fmt.Errorf("desensitize: rule %q has no field name", name)
	}
	value, err := compile(name, pattern)
	if err != nil {
		return nil, err
	}
	return &FieldRule{
		ruleState:   ruleState{name: name},
		field:       regexp.MustCompile(`"` + regexp.QuoteMeta(fieldName) + `"\s*:\s*"((?:[^"\\]|\\.)*)"`),
		value:       value,
		replacement: replacement,
	}, nil
}

func (r *FieldRule) Process(s string) string {
	matches := r.field.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		start, end := m[2], m[3]
		b.WriteString(s[last:start])
		b.WriteString(r.value.ReplaceAllString(s[start:end], r.replacement))
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func compile(name, pattern string) (*regexp.Regexp, error) {
	if name == "" {
		return nil, fmt.Errorf("desensitize: rule name cannot be empty")
	}
	if pattern == "" {
		return nil, fmt.Errorf("desensitize: rule %q has an empty pattern", name)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("desensitize: rule %q: %w", name, err)
	}
	return re, nil
}

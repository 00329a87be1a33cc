package desensitize

import (
	"slices"
	"sync"
)

// Hook 脱敏钩子，按添加顺序应用规则
type Hook struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewHook 创建新的脱敏钩子
func NewHook() *Hook {
	return &Hook{}
}

// AddRule 添加脱敏规则，同名规则被替换
func (h *Hook) AddRule(rule Rule) {
	if rule == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// 写时复制，Desensitize 持有的旧切片不受影响
	if i := h.index(rule.Name()); i >= 0 {
		rules := slices.Clone(h.rules)
		rules[i] = rule
		h.rules = rules
		return
	}
	h.rules = append(h.rules, rule)
}

// AddContentRule 添加基于内容匹配的脱敏规则
func (h *Hook) AddContentRule(name, pattern, replacement string) error {
	rule, err := NewContentRule(name, pattern, replacement)
	if err != nil {
		return err
	}
	h.AddRule(rule)
	return nil
}

// AddFieldRule 添加基于字段名匹配的脱敏规则
func (h *Hook) AddFieldRule(name, fieldName, pattern, replacement string) error {
	rule, err := NewFieldRule(name, fieldName, pattern, replacement)
	if err != nil {
		return err
	}
	h.AddRule(rule)
	return nil
}

// AddRules 依次添加规则
func (h *Hook) AddRules(rules ...Rule) {
	for _, rule := range rules {
		h.AddRule(rule)
	}
}

// RemoveRule 移除脱敏规则
func (h *Hook) RemoveRule(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	i := h.index(name)
	if i < 0 {
		return false
	}
	h.rules = slices.Concat(h.rules[:i], h.rules[i+1:])
	return true
}

// EnableRule 启用规则
func (h *Hook) EnableRule(name string) bool {
	return h.setEnabled(name, true)
}

// DisableRule 禁用规则
func (h *Hook) DisableRule(name string) bool {
	return h.setEnabled(name, false)
}

func (h *Hook) setEnabled(name string, enabled bool) bool {
	rule, ok := h.GetRule(name)
	if ok {
		rule.SetEnabled(enabled)
	}
	return ok
}

// GetRule 获取指定规则
func (h *Hook) GetRule(name string) (Rule, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i := h.index(name); i >= 0 {
		return h.rules[i], true
	}
	return nil, false
}

// GetRules 按应用顺序列出所有规则名称
func (h *Hook) GetRules() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.rules))
	for _, rule := range h.rules {
		names = append(names, rule.Name())
	}
	return names
}

// RuleCount 返回规则数量
func (h *Hook) RuleCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rules)
}

// Desensitize 对字符串进行脱敏处理
func (h *Hook) Desensitize(s string) string {
	if s == "" {
		return s
	}

	h.mu.RLock()
	rules := h.rules
	h.mu.RUnlock()

	for _, rule := range rules {
		if rule.Enabled() {
			s = rule.Process(s)
		}
	}
	return s
}

// index 调用方需持有锁
func (h *Hook) index(name string) int {
	return slices.IndexFunc(h.rules, func(r Rule) bool { return r.Name() == name })
}

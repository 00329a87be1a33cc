package desensitize

const masked = "******"

// 需要整体屏蔽的 JSON 字段
var secretFields = []string{"ltkey", "private_key", "permanent_key", "pin"}

// KeyMaterialRules 返回一组新的密钥材料与联系人信息脱敏规则。
// 字段规则先于 hex_key 执行，因此 ltkey 字段显示为 ******，
// 其他位置出现的 64 位以上十六进制串显示为 [REDACTED]。
// 电话号码保留前后各 2 位：0612345678 -> 06******78。
func KeyMaterialRules() []Rule {
	rules := make([]Rule, 0, len(secretFields)+2)
	for _, field := range secretFields {
		rules = append(rules, mustField(field, `.+`, masked))
	}
	rules = append(rules,
		mustField("phone", `^(\d{2})\d+(\d{2})$`, "${1}"+masked+"${2}"),
		mustContent("hex_key", `\b[0-9a-fA-F]{64,}\b`, "[REDACTED]"),
	)
	return rules
}

// NewKeyMaterialHook 创建加载了 KeyMaterialRules 的脱敏钩子
func NewKeyMaterialHook() *Hook {
	h := NewHook()
	h.AddRules(KeyMaterialRules()...)
	return h
}

func mustField(field, pattern, replacement string) Rule {
	r, err := NewFieldRule(field, field, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

func mustContent(name, pattern, replacement string) Rule {
	r, err := NewContentRule(name, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

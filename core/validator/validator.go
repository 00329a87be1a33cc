package validator

import (
	"context"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/kochabx/clea/errors"
)

// validatorImpl 校验器实现
type validatorImpl struct {
	validator    *validator.Validate
	translator   ut.Translator
	mutex        sync.RWMutex
	fieldNameTag string
}

// Validate 全局校验器实例
var (
	Validate Validator
	once     sync.Once
)

var digitsRegexp = regexp.MustCompile(`^[0-9]+$`)

func init() {
	once.Do(func() {
		Validate = New()
	})
}

// New 创建新的校验器实例
func New(opts ...ValidationOption) Validator {
	v := &validatorImpl{
		validator: validator.New(),
	}

	// 初始化英文翻译器
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	v.translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v.validator, v.translator)

	// 应用选项
	for _, opt := range opts {
		opt(v)
	}

	if v.fieldNameTag != "" {
		v.validator.RegisterTagNameFunc(v.fieldName)
	}

	// 内置规则
	_ = v.RegisterRule("digits", "{0} must contain only decimal digits", func(fl validator.FieldLevel) bool {
		return digitsRegexp.MatchString(fl.Field().String())
	})

	return v
}

// fieldName 从标签中提取字段名，标签缺失时回退到结构体字段名
func (v *validatorImpl) fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get(v.fieldNameTag), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// RegisterRule 注册自定义规则及其翻译
func (v *validatorImpl) RegisterRule(tag, message string, fn validator.Func) error {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if err := v.validator.RegisterValidation(tag, fn); err != nil {
		return err
	}

	return v.validator.RegisterTranslation(tag, v.translator,
		func(trans ut.Translator) error {
			return trans.Add(tag, message, true)
		},
		func(trans ut.Translator, fe validator.FieldError) string {
			t, err := trans.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return t
		},
	)
}

// Struct 校验结构体
func (v *validatorImpl) Struct(s any) error {
	if s == nil {
		return errors.Validation("validation target cannot be nil")
	}
	return v.translateError(v.validator.Struct(s))
}

// StructCtx 带上下文校验结构体
func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.Validation("validation target cannot be nil")
	}
	return v.translateError(v.validator.StructCtx(ctx, s))
}

// StructExcept 校验结构体，跳过指定字段
func (v *validatorImpl) StructExcept(s any, fields ...string) error {
	if s == nil {
		return errors.Validation("validation target cannot be nil")
	}
	return v.translateError(v.validator.StructExcept(s, fields...))
}

// StructPartial 仅校验指定字段
func (v *validatorImpl) StructPartial(s any, fields ...string) error {
	if s == nil {
		return errors.Validation("validation target cannot be nil")
	}
	return v.translateError(v.validator.StructPartial(s, fields...))
}

// Var 校验单个变量
func (v *validatorImpl) Var(field any, tag string) error {
	return v.translateError(v.validator.Var(field, tag))
}

// GetValidator 获取底层的validator实例
func (v *validatorImpl) GetValidator() *validator.Validate {
	return v.validator
}

// translateError 将 validator 错误转换为携带违规项的 ValidationError
func (v *validatorImpl) translateError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// InvalidValidationError 等非字段错误
		return errors.Validation(err.Error())
	}

	violations := make([]errors.Violation, 0, len(validationErrors))
	for _, fe := range validationErrors {
		violations = append(violations, errors.Violation{
			Field:      fe.Field(),
			Constraint: fe.Tag(),
			Message:    fe.Translate(v.translator),
		})
	}

	return errors.Validation("validation failed", violations...)
}

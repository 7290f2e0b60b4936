package catalog

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MaxRating 评分上限
const MaxRating = 5

// Rules 基于validator标签的规则集
// 违规信息按结构体字段顺序输出，每个字段一条，文案来自消息表
type Rules struct {
	validate *validator.Validate
	messages map[string]string
}

// NewRules 创建规则集
//
// messages 的键为 "字段.标签"（如 "title.keyword"），
// 也可只写 "字段" 作为该字段所有标签的兜底文案
func NewRules(messages map[string]string) *Rules {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 错误信息中使用json字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// keyword: 以字母、数字或下划线开头
	_ = v.RegisterValidation("keyword", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, r := range s {
			return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		}
		return true
	})

	// serial: 与ISBN相同的10/13位校验码格式
	v.RegisterAlias("serial", "isbn")

	return &Rules{validate: v, messages: messages}
}

// Check 校验结构体，返回有序的违规信息
func (r *Rules) Check(v any) []string {
	err := r.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, r.message(fe))
	}
	return messages
}

// Message 查询消息表，未配置时返回通用文案
func (r *Rules) Message(field, tag string) string {
	if msg, ok := r.messages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := r.messages[field]; ok {
		return msg
	}
	return field + "字段不合法"
}

func (r *Rules) message(fe validator.FieldError) string {
	return r.Message(fe.Field(), fe.Tag())
}

package security

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validator 验证器接口
type Validator interface {
	Validate(value interface{}) error
	Sanitize(value string) string
}

// StringValidator 字符串验证器
type StringValidator struct {
	MinLength int
	MaxLength int
	Required  bool
	Pattern   *regexp.Regexp
	AllowHTML bool
}

// NewStringValidator 创建字符串验证器
func NewStringValidator(minLength, maxLength int, required bool) *StringValidator {
	return &StringValidator{
		MinLength: minLength,
		MaxLength: maxLength,
		Required:  required,
		AllowHTML: false,
	}
}

// Validate 验证字符串
func (sv *StringValidator) Validate(value interface{}) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("value must be a string")
	}

	if sv.Required && strings.TrimSpace(str) == "" {
		return fmt.Errorf("value is required")
	}

	if !sv.Required && str == "" {
		return nil
	}

	length := utf8.RuneCountInString(str)
	if length < sv.MinLength {
		return fmt.Errorf("value too short, minimum length is %d", sv.MinLength)
	}

	if length > sv.MaxLength {
		return fmt.Errorf("value too long, maximum length is %d", sv.MaxLength)
	}

	if sv.Pattern != nil && !sv.Pattern.MatchString(str) {
		return fmt.Errorf("value does not match required pattern")
	}

	return nil
}

// Sanitize 清理字符串：转义 HTML、移除控制字符
func (sv *StringValidator) Sanitize(value string) string {
	if !sv.AllowHTML {
		value = html.EscapeString(value)
	}

	// 移除控制字符
	value = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, value)

	return strings.TrimSpace(value)
}

// 论坛内容验证器
var (
	// TopicTitleValidator 主题标题：3-200 字符
	TopicTitleValidator = NewStringValidator(3, 200, true)
	// TopicBodyValidator 主题正文：1-50000 字符
	TopicBodyValidator = NewStringValidator(1, 50000, true)
	// CommentBodyValidator 评论正文：1-10000 字符
	CommentBodyValidator = NewStringValidator(1, 10000, true)
	// UsernameValidator 用户名：3-30 字符，字母数字下划线
	UsernameValidator = &StringValidator{
		MinLength: 3,
		MaxLength: 30,
		Required:  true,
		Pattern:   regexp.MustCompile(`^[a-zA-Z0-9_]+$`),
	}
)

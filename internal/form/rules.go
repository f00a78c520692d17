package form

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// MobilePattern 大陆手机号格式。
var MobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// Required 标记字段必填，缺失时返回 msg。
func Required(msg string) Option {
	return func(f *Field) { f.required = msg }
}

// Invalid 设置必填字段无法解析时的提示，未设置时沿用 Required 的提示。
func Invalid(msg string) Option {
	return func(f *Field) { f.invalid = msg }
}

// Default 设置可选字段缺失或无法解析时的值。
func Default(value any) Option {
	return func(f *Field) { f.fallback = value }
}

// Check 追加自定义规则。
func Check(rule Rule) Option {
	return func(f *Field) { f.rules = append(f.rules, rule) }
}

// MinLen 按字符数限制最小长度。
func MinLen(n int, msg string) Option {
	return Check(func(value any) string {
		if s, ok := value.(string); ok && utf8.RuneCountInString(s) < n {
			return msg
		}
		return ""
	})
}

// MaxLen 按字符数限制最大长度。
func MaxLen(n int, msg string) Option {
	return Check(func(value any) string {
		if s, ok := value.(string); ok && utf8.RuneCountInString(s) > n {
			return msg
		}
		return ""
	})
}

// Len 要求字符数恰好为 n。
func Len(n int, msg string) Option {
	return Check(func(value any) string {
		if s, ok := value.(string); ok && utf8.RuneCountInString(s) != n {
			return msg
		}
		return ""
	})
}

// Match 要求字符串匹配正则。
func Match(re *regexp.Regexp, msg string) Option {
	return Check(func(value any) string {
		if s, ok := value.(string); ok && !re.MatchString(s) {
			return msg
		}
		return ""
	})
}

// OneOf 要求整数位于枚举集合内。
func OneOf(msg string, allowed ...int) Option {
	return Check(func(value any) string {
		n, ok := value.(int)
		if !ok {
			return msg
		}
		for _, candidate := range allowed {
			if candidate == n {
				return ""
			}
		}
		return msg
	})
}

// Positive 要求整数大于 0。
func Positive(msg string) Option {
	return Check(func(value any) string {
		if n, ok := value.(int); !ok || n <= 0 {
			return msg
		}
		return ""
	})
}

// URL 要求字符串是合法的绝对 URL。
func URL(msg string) Option {
	return Check(func(value any) string {
		s, ok := value.(string)
		if !ok || validate.Var(s, "url") != nil {
			return msg
		}
		return ""
	})
}

// UUID 要求字符串是合法的 UUID。
func UUID(msg string) Option {
	return Check(func(value any) string {
		s, ok := value.(string)
		if !ok {
			return msg
		}
		if _, err := uuid.Parse(s); err != nil {
			return msg
		}
		return ""
	})
}

// Package form 提供按字段声明的请求参数校验：每个字段只报告第一条失败的规则，
// 多个字段的错误按声明顺序以 "/" 拼接。
package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind 字段的基础类型。
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
)

// Rule 校验已转换的字段值，失败时返回错误提示。
type Rule func(value any) string

// Field 描述一个待校验字段。
type Field struct {
	Name     string
	Kind     Kind
	required string
	invalid  string
	fallback any
	rules    []Rule
}

// Option 配置字段。
type Option func(*Field)

// String 声明字符串字段，值会去除首尾空白。
func String(name string, opts ...Option) *Field {
	return newField(name, KindString, opts)
}

// Int 声明整数字段。可选字段解析失败时退化为默认值（未指定时为 0）。
func Int(name string, opts ...Option) *Field {
	return newField(name, KindInt, opts)
}

// Bool 声明布尔字段，缺省为 false。
func Bool(name string, opts ...Option) *Field {
	return newField(name, KindBool, opts)
}

func newField(name string, kind Kind, opts []Option) *Field {
	f := &Field{Name: name, Kind: kind}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Schema 是有序字段列表加上跨字段的 Clean 钩子。
type Schema struct {
	Fields []*Field
	Clean  []func(Values) string
}

// New 按声明顺序创建 Schema。
func New(fields ...*Field) *Schema {
	return &Schema{Fields: fields}
}

// WithClean 追加跨字段校验，按顺序执行，遇到第一条失败即停止。
func (s *Schema) WithClean(fns ...func(Values) string) *Schema {
	s.Clean = append(s.Clean, fns...)
	return s
}

// Validate 校验输入。字段规则先执行，随后执行 Clean 钩子，其错误排在字段错误之后。
func (s *Schema) Validate(input map[string]any) (Values, Errors) {
	values := Values{data: map[string]any{}, given: map[string]bool{}}
	var errs Errors

	for _, f := range s.Fields {
		value, present, ok := f.coerce(input[f.Name])
		if !present || !ok {
			if f.required != "" {
				msg := f.required
				if present && f.invalid != "" {
					msg = f.invalid
				}
				errs = append(errs, msg)
				continue
			}
			values.data[f.Name] = f.defaultValue()
			continue
		}

		if msg := f.check(value); msg != "" {
			errs = append(errs, msg)
			continue
		}
		values.data[f.Name] = value
		values.given[f.Name] = true
	}

	for _, clean := range s.Clean {
		if msg := clean(values); msg != "" {
			errs = append(errs, msg)
			break
		}
	}

	if len(errs) > 0 {
		return values, errs
	}
	return values, nil
}

func (f *Field) check(value any) string {
	for _, rule := range f.rules {
		if msg := rule(value); msg != "" {
			return msg
		}
	}
	return ""
}

func (f *Field) defaultValue() any {
	if f.fallback != nil {
		return f.fallback
	}
	switch f.Kind {
	case KindInt:
		return 0
	case KindBool:
		return false
	default:
		return ""
	}
}

// coerce 将原始值转换为字段类型。present 为 false 表示未提供或为空。
func (f *Field) coerce(raw any) (value any, present bool, ok bool) {
	if raw == nil {
		return nil, false, false
	}
	switch f.Kind {
	case KindInt:
		return coerceInt(raw)
	case KindBool:
		return coerceBool(raw)
	default:
		s := strings.TrimSpace(toString(raw))
		if s == "" {
			return nil, false, false
		}
		return s, true, true
	}
}

func coerceInt(raw any) (any, bool, bool) {
	switch v := raw.(type) {
	case int:
		return v, true, true
	case int64:
		return int(v), true, true
	case uint:
		return int(v), true, true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, true, false
		}
		return int(v), true, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, false, false
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, true, false
		}
		return n, true, true
	default:
		return nil, true, false
	}
}

func coerceBool(raw any) (any, bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true, true
	case float64:
		return v != 0, true, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "false", "0", "off", "no":
			return false, true, true
		default:
			return true, true, true
		}
	default:
		return nil, true, false
	}
}

func toString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Values 保存校验通过的字段值。
type Values struct {
	data  map[string]any
	given map[string]bool
}

// Has 报告字段是否被提供且通过校验。
func (v Values) Has(name string) bool {
	return v.given[name]
}

// String 返回字符串字段值。
func (v Values) String(name string) string {
	s, _ := v.data[name].(string)
	return s
}

// Int 返回整数字段值。
func (v Values) Int(name string) int {
	n, _ := v.data[name].(int)
	return n
}

// Uint 返回非负整数字段值，负数视为 0。
func (v Values) Uint(name string) uint {
	n := v.Int(name)
	if n < 0 {
		return 0
	}
	return uint(n)
}

// Bool 返回布尔字段值。
func (v Values) Bool(name string) bool {
	b, _ := v.data[name].(bool)
	return b
}

// Errors 是按顺序收集的错误提示。
type Errors []string

// Join 以 "/" 拼接全部错误提示。
func (e Errors) Join() string {
	return strings.Join(e, "/")
}

func (e Errors) Error() string {
	return e.Join()
}

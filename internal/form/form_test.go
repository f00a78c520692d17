package form

import (
	"strings"
	"testing"
)

func newsSchema() *Schema {
	return New(
		String("title", Required("文章标题不能为空"), MaxLen(150, "文章标题长度不能超过150"), MinLen(1, "文章标题长度大于1")),
		String("digest", Required("文章摘要不能为空"), MaxLen(200, "文章摘要长度不能超过200")),
		String("image_url", Required("文章图片url不能为空"), URL("文章图片url格式不正确")),
		Int("tag", Required("文章标签id不能为空"), Invalid("文章标签id不存在"), Positive("文章标签id不存在")),
	)
}

func TestValidateJoinsErrorsInDeclarationOrder(t *testing.T) {
	_, errs := newsSchema().Validate(map[string]any{
		"title":     "",
		"digest":    strings.Repeat("摘", 201),
		"image_url": "not a url",
		"tag":       "abc",
	})

	want := "文章标题不能为空/文章摘要长度不能超过200/文章图片url格式不正确/文章标签id不存在"
	if errs.Join() != want {
		t.Fatalf("unexpected errors:\n got %q\nwant %q", errs.Join(), want)
	}
}

func TestValidateReportsFirstFailingRulePerField(t *testing.T) {
	schema := New(String("mobile", Required("手机号不能为空"), Len(11, "手机长度有误"), Match(MobilePattern, "手机号码格式不正确")))

	_, errs := schema.Validate(map[string]any{"mobile": "123"})
	if len(errs) != 1 || errs[0] != "手机长度有误" {
		t.Fatalf("expected only the length error, got %v", errs)
	}

	_, errs = schema.Validate(map[string]any{"mobile": "12345678901"})
	if len(errs) != 1 || errs[0] != "手机号码格式不正确" {
		t.Fatalf("expected pattern error, got %v", errs)
	}
}

func TestValidateCoercesValues(t *testing.T) {
	values, errs := newsSchema().Validate(map[string]any{
		"title":     "  Go 并发  ",
		"digest":    "摘要",
		"image_url": "https://example.com/a.png",
		"tag":       float64(3),
	})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if values.String("title") != "Go 并发" {
		t.Fatalf("expected trimmed title, got %q", values.String("title"))
	}
	if values.Uint("tag") != 3 {
		t.Fatalf("expected tag 3, got %d", values.Uint("tag"))
	}
}

func TestOptionalIntDegradesToDefault(t *testing.T) {
	schema := New(Int("tag_id"), Int("page", Default(1)))

	values, errs := schema.Validate(map[string]any{"tag_id": "x", "page": "two"})
	if errs != nil {
		t.Fatalf("optional filters must not fail: %v", errs)
	}
	if values.Int("tag_id") != 0 || values.Int("page") != 1 {
		t.Fatalf("expected sentinel values, got tag_id=%d page=%d", values.Int("tag_id"), values.Int("page"))
	}
	if values.Has("tag_id") {
		t.Fatalf("degraded value must not count as provided")
	}
}

func TestCleanRunsAfterFieldsAndStopsAtFirstFailure(t *testing.T) {
	calls := 0
	schema := New(
		String("password", Required("密码不能为空"), MinLen(6, "密码长度要大于6")),
		String("password_repeat", Required("密码不能为空")),
	).WithClean(
		func(v Values) string {
			calls++
			if v.Has("password") && v.Has("password_repeat") && v.String("password") != v.String("password_repeat") {
				return "两次密码不一致"
			}
			return ""
		},
		func(v Values) string {
			calls++
			return "短信验证码错误"
		},
	)

	_, errs := schema.Validate(map[string]any{"password": "123", "password_repeat": "123456"})
	if errs.Join() != "密码长度要大于6/短信验证码错误" {
		t.Fatalf("unexpected errors %q", errs.Join())
	}

	calls = 0
	_, errs = schema.Validate(map[string]any{"password": "1234567", "password_repeat": "1234568"})
	if errs.Join() != "两次密码不一致" || calls != 1 {
		t.Fatalf("expected clean to stop at first failure, got %q after %d calls", errs.Join(), calls)
	}
}

func TestUUIDAndOneOf(t *testing.T) {
	schema := New(
		String("image_code_id", Required("图片UUID不能为空"), UUID("图片UUID格式不正确")),
		Int("priority", Required("优先级设置错误"), OneOf("优先级设置错误", 1, 2, 3)),
	)

	_, errs := schema.Validate(map[string]any{"image_code_id": "nope", "priority": 4})
	if errs.Join() != "图片UUID格式不正确/优先级设置错误" {
		t.Fatalf("unexpected errors %q", errs.Join())
	}

	values, errs := schema.Validate(map[string]any{"image_code_id": "5b8c1a2e-8d3f-4f2a-9a77-3c2d2f1e0b11", "priority": "2"})
	if errs != nil || values.Int("priority") != 2 {
		t.Fatalf("expected valid input, got %v", errs)
	}
}

func TestBoolField(t *testing.T) {
	schema := New(Bool("remember_me"))
	values, _ := schema.Validate(map[string]any{})
	if values.Bool("remember_me") {
		t.Fatalf("missing bool should be false")
	}
	values, _ = schema.Validate(map[string]any{"remember_me": true})
	if !values.Bool("remember_me") {
		t.Fatalf("expected true")
	}
}

func TestDecodeJSON(t *testing.T) {
	if _, err := DecodeJSON([]byte("  ")); err != ErrEmptyBody {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	if _, err := DecodeJSON([]byte("null")); err != ErrEmptyBody {
		t.Fatalf("expected ErrEmptyBody for null, got %v", err)
	}
	if _, err := DecodeJSON([]byte("{bad")); err == nil {
		t.Fatalf("expected malformed json to fail")
	}
	input, err := DecodeJSON([]byte(`{"name":"Go","priority":2}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if input["name"] != "Go" || input["priority"] != float64(2) {
		t.Fatalf("unexpected decoded input %v", input)
	}
}

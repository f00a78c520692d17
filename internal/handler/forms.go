package handler

import (
	"context"
	"unicode/utf8"

	"github.com/xujunlin/mydjango/internal/db"
	"github.com/xujunlin/mydjango/internal/form"
	"github.com/xujunlin/mydjango/internal/verify"
)

func priorityValues() []int {
	values := make([]int, 0, len(db.PriorityChoices))
	for _, choice := range db.PriorityChoices {
		values = append(values, choice.Value)
	}
	return values
}

func priorityLabels() map[int]string {
	labels := make(map[int]string, len(db.PriorityChoices))
	for _, choice := range db.PriorityChoices {
		labels[choice.Value] = choice.Label
	}
	return labels
}

func tagForm() *form.Schema {
	return form.New(form.String("name", form.Required("标签不能为空")))
}

// priorityForm 用于热门新闻与轮播图的优先级修改。
func priorityForm(invalid string, extra ...*form.Field) *form.Schema {
	fields := []*form.Field{
		form.Int("priority", form.Required(invalid), form.OneOf(invalid, priorityValues()...)),
	}
	return form.New(append(fields, extra...)...)
}

func (a *API) hotNewsAddForm() *form.Schema {
	return form.New(
		a.newsRefField("参数错误"),
		form.Int("priority", form.Required("参数错误"), form.OneOf("热门文章优先级设置错误", priorityValues()...)),
	)
}

func (a *API) bannerAddForm() *form.Schema {
	return form.New(
		a.newsRefField("参数错误"),
		form.Int("priority", form.Required("参数错误"), form.OneOf("轮播图优先级设置错误", priorityValues()...)),
		form.String("image_url", form.Required("轮播图url不能为空"), form.URL("轮播图url格式不正确")),
	)
}

func (a *API) newsRefField(required string) *form.Field {
	return form.Int("news_id", form.Required(required), form.Check(func(value any) string {
		id, _ := value.(int)
		if id <= 0 {
			return "文章不存在"
		}
		ok, err := a.news.Exists(uint(id))
		if err != nil || !ok {
			return "文章不存在"
		}
		return ""
	}))
}

func (a *API) newsPubForm() *form.Schema {
	return form.New(
		form.String("title",
			form.Required("文章标题不能为空"),
			form.MaxLen(150, "文章标题长度不能超过150"),
			form.MinLen(1, "文章标题长度大于1")),
		form.String("digest",
			form.Required("文章摘要不能为空"),
			form.MaxLen(200, "文章摘要长度不能超过200")),
		form.String("content", form.Required("文章内容不能为空")),
		form.String("image_url",
			form.Required("文章图片url不能为空"),
			form.URL("文章图片url格式不正确")),
		form.Int("tag",
			form.Required("文章标签id不能为空"),
			form.Invalid("文章标签id不存在"),
			form.Check(func(value any) string {
				id, _ := value.(int)
				if id <= 0 {
					return "文章标签id不存在"
				}
				ok, err := a.tags.Exists(uint(id))
				if err != nil || !ok {
					return "文章标签id不存在"
				}
				return ""
			})),
	)
}

func docsPubForm() *form.Schema {
	return form.New(
		form.String("title",
			form.Required("文章标题不能为空"),
			form.MaxLen(150, "文章标题长度不能超过150"),
			form.MinLen(1, "文章标题长度大于1")),
		form.String("desc",
			form.Required("文章介绍不能为空"),
			form.MaxLen(200, "文章介绍长度不能超过200")),
		form.String("image_url", form.Required("文章图片url不能为空")),
		form.String("file_url", form.Required("文档url不能为空")),
	)
}

func coursesPubForm() *form.Schema {
	return form.New(
		form.String("title",
			form.Required("视频标题不能为空"),
			form.MaxLen(150, "视频标题长度不能超过150"),
			form.MinLen(1, "视频标题长度大于1")),
		form.String("cover_url", form.Required("封面图url不能为空")),
		form.String("video_url", form.Required("视频url不能为空")),
		form.String("duration"),
		form.String("profile"),
		form.String("outline"),
		form.Int("teacher"),
		form.Int("category"),
	)
}

// imageCodeForm 发送短信前校验手机号与图片验证码。
func (a *API) imageCodeForm(ctx context.Context) *form.Schema {
	return form.New(
		form.String("mobile",
			form.Required("手机号不能为空"),
			form.Len(11, "手机长度有误"),
			form.Match(form.MobilePattern, "手机号码格式不正确")),
		form.String("text",
			form.Required("验证码不能为空"),
			form.Len(4, "验证码长度有误")),
		form.String("image_code_id",
			form.Required("图片UUID不能为空"),
			form.UUID("图片UUID不能为空")),
	).WithClean(
		func(v form.Values) string {
			if !v.Has("mobile") {
				return ""
			}
			if count, err := a.users.CountByMobile(v.String("mobile")); err == nil && count > 0 {
				return "手机号已经注册，请登录"
			}
			return ""
		},
		func(v form.Values) string {
			if !v.Has("text") || !v.Has("image_code_id") {
				return ""
			}
			if a.verify.CheckImageCode(ctx, v.String("image_code_id"), v.String("text")) != nil {
				return "验证码有误"
			}
			return ""
		},
	)
}

func (a *API) registerForm(ctx context.Context) *form.Schema {
	return form.New(
		form.String("username",
			form.Required("用户名不能为空"),
			form.MinLen(5, "用户名长度要大于5"),
			form.MaxLen(20, "用户名长度要小于20")),
		form.String("password",
			form.Required("密码不能为空"),
			form.MinLen(6, "密码长度要大于6"),
			form.MaxLen(20, "密码长度要小于20")),
		form.String("password_repeat",
			form.Required("密码不能为空"),
			form.MinLen(6, "密码长度要大于6"),
			form.MaxLen(20, "密码长度要小于20")),
		form.String("mobile",
			form.Required("手机号不能为空"),
			form.Len(11, "手机号长度有误"),
			form.Match(form.MobilePattern, "手机号码格式不正确"),
			form.Check(func(value any) string {
				mobile, _ := value.(string)
				if count, err := a.users.CountByMobile(mobile); err == nil && count > 0 {
					return "手机号已注册，请重新输入！"
				}
				return ""
			})),
		form.String("sms_code",
			form.Required("短信验证码不能为空"),
			form.Len(verify.SMSCodeLength, "短信验证码长度有误")),
	).WithClean(
		func(v form.Values) string {
			if v.String("password") != v.String("password_repeat") {
				return "两次密码不一致"
			}
			return ""
		},
		func(v form.Values) string {
			if !v.Has("mobile") || !v.Has("sms_code") {
				return ""
			}
			if a.verify.CheckSMSCode(ctx, v.String("mobile"), v.String("sms_code")) != nil {
				return "短信验证码错误"
			}
			return ""
		},
	)
}

func loginForm() *form.Schema {
	return form.New(
		form.String("user_account",
			form.Required("用户账号不能为空"),
			form.Check(func(value any) string {
				account, _ := value.(string)
				if form.MobilePattern.MatchString(account) {
					return ""
				}
				if n := utf8.RuneCountInString(account); n < 5 || n > 20 {
					return "账号不正确"
				}
				return ""
			})),
		form.String("password",
			form.Required("密码不能为空"),
			form.MinLen(6, "密码长度要大于6"),
			form.MaxLen(20, "密码长度要小于20")),
		form.Bool("remember_me"),
	)
}

func commentForm() *form.Schema {
	return form.New(form.String("content", form.Required("评论内容不能为空")))
}

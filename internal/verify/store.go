// Package verify 保存图片验证码、短信验证码与发送频率标记等短期记录。
package verify

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

const (
	// ImageCodeTTL 图片验证码有效期
	ImageCodeTTL = 5 * time.Minute
	// SMSCodeLength 短信验证码位数
	SMSCodeLength = 6
	// SMSCodeTTL 短信验证码有效期
	SMSCodeTTL = 5 * time.Minute
	// SMSInterval 同一手机号两次发送的最小间隔
	SMSInterval = 60 * time.Second
	// SMSTemplateID 短信模板编号，同时用作频率标记的值
	SMSTemplateID = 1
	// SMSFlagValue 频率标记写入的值
	SMSFlagValue = "1"
)

// ErrStoreUnavailable 表示底层存储不可用。
var ErrStoreUnavailable = errors.New("verification store unavailable")

// Entry 是批量写入的一条记录。
type Entry struct {
	Key   string
	Value string
	TTL   time.Duration
}

// Store 带过期时间的键值存储。
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get 返回值与是否存在，过期视为不存在。
	Get(ctx context.Context, key string) (string, bool, error)
	// TTL 返回剩余有效期，记录不存在时 ok 为 false。
	TTL(ctx context.Context, key string) (time.Duration, bool, error)
	// SetBatch 原子写入多条记录，要么全部成功要么全部失败。
	SetBatch(ctx context.Context, entries []Entry) error
	Delete(ctx context.Context, key string) error
}

// ImageCodeKey 图片验证码的存储键。
func ImageCodeKey(id string) string {
	return "img_" + strings.TrimSpace(id)
}

// SMSCodeKey 短信验证码的存储键。
func SMSCodeKey(mobile string) string {
	return "sms_" + strings.TrimSpace(mobile)
}

// SMSFlagKey 短信发送频率标记的存储键。
func SMSFlagKey(mobile string) string {
	return "sms_flag_" + strings.TrimSpace(mobile)
}

// RandDigits 使用 crypto/rand 生成 n 位数字。
func RandDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		x, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}

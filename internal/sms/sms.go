// Package sms 短信网关客户端。
package sms

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
)

// ErrSendFailed 网关拒绝发送。
var ErrSendFailed = errors.New("sms gateway rejected message")

// Sender 按模板发送短信。
type Sender interface {
	// Send 向 mobile 发送模板短信，params 依次填入模板占位符。
	Send(ctx context.Context, mobile string, params []string, templateID int) error
}

// LogSender 仅记录验证码而不真正调用网关，适用于开发与测试环境。
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender 创建 LogSender。
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, mobile string, params []string, templateID int) error {
	s.logger.Info("发送短信验证码",
		zap.String("mobile", mobile),
		zap.Strings("params", params),
		zap.String("template", strconv.Itoa(templateID)),
	)
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/xujunlin/mydjango/internal/captcha"
	"github.com/xujunlin/mydjango/internal/sms"
	"github.com/xujunlin/mydjango/internal/verify"
	"go.uber.org/zap"
)

var (
	ErrSendTooFrequent   = errors.New("sms requested too frequently")
	ErrImageCodeMismatch = errors.New("image code mismatch")
	ErrSMSCodeMismatch   = errors.New("sms code mismatch")
)

// VerifyService 负责图片验证码与短信验证码的签发和校验。
type VerifyService struct {
	store   verify.Store
	captcha *captcha.Generator
	sender  sms.Sender
	logger  *zap.Logger
}

// NewVerifyService creates a VerifyService instance.
func NewVerifyService(store verify.Store, generator *captcha.Generator, sender sms.Sender, logger *zap.Logger) *VerifyService {
	if generator == nil {
		generator = captcha.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = sms.NewLogSender(logger)
	}
	return &VerifyService{store: store, captcha: generator, sender: sender, logger: logger}
}

// IssueImageCode 生成图片验证码，文本以 img_<id> 保存五分钟，返回 JPEG 图片。
func (s *VerifyService) IssueImageCode(ctx context.Context, id string) ([]byte, error) {
	text, image, err := s.captcha.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate captcha: %w", err)
	}
	if err := s.store.Set(ctx, verify.ImageCodeKey(id), text, verify.ImageCodeTTL); err != nil {
		s.logger.Error("保存图片验证码失败", zap.String("image_code_id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("图片验证码", zap.String("image_code_id", id), zap.String("text", text))
	return image, nil
}

// CheckImageCode 校验图片验证码，记录缺失或过期同样视为不匹配。
func (s *VerifyService) CheckImageCode(ctx context.Context, id, text string) error {
	stored, ok, err := s.store.Get(ctx, verify.ImageCodeKey(id))
	if err != nil {
		return err
	}
	if !ok || stored == "" || stored != text {
		return ErrImageCodeMismatch
	}
	return nil
}

// SendSMS 签发短信验证码。频率标记存在时返回 ErrSendTooFrequent 且不改动任何记录；
// 标记与验证码在同一批次中写入。
func (s *VerifyService) SendSMS(ctx context.Context, mobile string) error {
	_, flagged, err := s.store.Get(ctx, verify.SMSFlagKey(mobile))
	if err != nil {
		return err
	}
	if flagged {
		return ErrSendTooFrequent
	}

	code, err := verify.RandDigits(verify.SMSCodeLength)
	if err != nil {
		return err
	}

	err = s.store.SetBatch(ctx, []verify.Entry{
		{Key: verify.SMSFlagKey(mobile), Value: verify.SMSFlagValue, TTL: verify.SMSInterval},
		{Key: verify.SMSCodeKey(mobile), Value: code, TTL: verify.SMSCodeTTL},
	})
	if err != nil {
		s.logger.Error("写入短信验证码失败", zap.String("mobile", mobile), zap.Error(err))
		return err
	}
	s.logger.Info("Sms code", zap.String("mobile", mobile), zap.String("code", code))

	minutes := strconv.Itoa(int(verify.SMSCodeTTL.Minutes()))
	if err := s.sender.Send(ctx, mobile, []string{code, minutes}, verify.SMSTemplateID); err != nil {
		s.logger.Error("发送短信验证码失败", zap.String("mobile", mobile), zap.Error(err))
		return fmt.Errorf("%w: %v", sms.ErrSendFailed, err)
	}
	return nil
}

// CheckSMSCode 校验短信验证码。
func (s *VerifyService) CheckSMSCode(ctx context.Context, mobile, code string) error {
	stored, ok, err := s.store.Get(ctx, verify.SMSCodeKey(mobile))
	if err != nil {
		return err
	}
	if !ok || stored != code {
		return ErrSMSCodeMismatch
	}
	return nil
}

package sms

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSenderRecordsCode(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewLogSender(zap.New(core))

	if err := sender.Send(context.Background(), "13800000000", []string{"123456", "5"}, 1); err != nil {
		t.Fatalf("send: %v", err)
	}

	entries := logs.FilterField(zap.String("mobile", "13800000000")).All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
}

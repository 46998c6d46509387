package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssistantReply(t *testing.T) {
	svc := NewAssistantService()
	ctx := context.Background()

	tests := []struct {
		message string
		contain string
	}{
		{"How do I REGISTER?", "To register"},
		{"what are tokens", "100 tokens"},
		{"how to find matches", "swipe"},
		{"can I send a message", "chat"},
		{"tell me about the certificate", "70%"},
		{"upload my video", "video link"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Contains(t, svc.Reply(ctx, tt.message), tt.contain)
		})
	}

	assert.Equal(t, FallbackReply, svc.Reply(ctx, "what's the weather"))
}

package services

import (
	"context"
	"strings"

	"skillswap_backend/internal/logger"
)

// FallbackReply is returned when no topic keyword matches.
const FallbackReply = "I'm currently using local responses. For AI-powered answers, the administrator needs to configure an API key. In the meantime, try asking specific questions like:\n\n• How do I register?\n• How to find matches?\n• What are tokens?\n• How to use chat?\n\nI can help with these topics!"

type cannedAnswer struct {
	keywords []string
	reply    string
}

// AssistantService answers help questions from a fixed topic list.
type AssistantService interface {
	Reply(ctx context.Context, message string) string
}

type assistantService struct {
	answers []cannedAnswer
}

func NewAssistantService() AssistantService {
	return &assistantService{answers: []cannedAnswer{
		{
			keywords: []string{"register", "sign up", "signup", "account"},
			reply:    "📝 To register, open the sign-up page and enter your first name, last name, email and a password of 7 to 19 characters. We pick a unique username for you, and you can change it later in your profile.",
		},
		{
			keywords: []string{"token", "balance", "coin"},
			reply:    "🪙 Everyone starts with 100 tokens. Watching another user's skill video costs 5 tokens, and you earn 5 tokens each time someone watches one of yours.",
		},
		{
			keywords: []string{"match", "swipe", "like"},
			reply:    "💞 Add your skills and interests, then swipe: like the people who teach what you want to learn. When they like you back it's a match, and you can chat and rate each other's videos.",
		},
		{
			keywords: []string{"chat", "message"},
			reply:    "💬 Open a chat with any of your matches from the Matches page. Messages are delivered instantly while you are both online and stay in your chat history.",
		},
		{
			keywords: []string{"test", "quiz", "certificate", "exam"},
			reply:    "🎓 Skill tests have 10 questions and a 5 minute limit. Score 70% or more to pass and receive a certificate you can show on your profile.",
		},
		{
			keywords: []string{"video", "upload"},
			reply:    "🎬 Add a video link (YouTube, Vimeo, ...) for each skill you teach from your profile. Video files are not hosted here, only links.",
		},
	}}
}

func (s *assistantService) Reply(ctx context.Context, message string) string {
	lower := strings.ToLower(message)
	for _, a := range s.answers {
		for _, k := range a.keywords {
			if strings.Contains(lower, k) {
				return a.reply
			}
		}
	}
	logger.CtxDebug(ctx, "assistant fallback reply", "message_len", len(message))
	return FallbackReply
}

package handlers

import "skillswap_backend/ws"

// AppHandlers holds every HTTP handler.
type AppHandlers struct {
	AuthHandler      *AuthHandler
	UserHandler      *UserHandler
	SkillTestHandler *SkillTestHandler
	MatchingHandler  *MatchingHandler
	ChatHandler      *ChatHandler
	UtilHandler      *UtilHandler
	WSHandler        *ws.WebSocketHandler
}

package services

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	TokenService        TokenService
	RatingService       RatingService
	SkillTestService    SkillTestService
	MatchingService     MatchingService
	NotificationService NotificationService
	ChatService         ChatService
	AssistantService    AssistantService
}

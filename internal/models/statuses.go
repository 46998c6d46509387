package models

type NotificationType string

const (
	NotificationTokensSpent  NotificationType = "tokens_spent"
	NotificationTokensEarned NotificationType = "tokens_earned"
	NotificationVideoRated   NotificationType = "video_rated"
	NotificationTestPassed   NotificationType = "test_passed"
	NotificationTestFailed   NotificationType = "test_failed"
	NotificationMatch        NotificationType = "match"
	NotificationMatchRequest NotificationType = "match_request"
	NotificationNewMessage   NotificationType = "new_message"
)

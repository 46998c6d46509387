package apperrors

import "net/http"

// =========================================================================
// Users & auth
// =========================================================================

var ErrUserNotFound = New(CodeNotFound, "user", "User not found", http.StatusNotFound)

var ErrEmailAlreadyExists = New(CodeAlreadyExists, "user", "Email is already registered", http.StatusConflict)

var ErrUsernameTaken = New(CodeAlreadyExists, "user", "Username is already taken", http.StatusConflict)

var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Wrong password or email address", http.StatusUnauthorized)

var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

// =========================================================================
// Videos & token ledger
// =========================================================================

// ErrVideoOwnerNotFound - the username in the request does not exist.
var ErrVideoOwnerNotFound = New(CodeNotFound, "video", "Video owner not found", http.StatusNotFound)

// ErrVideoNotFound - the owner has no video registered for the skill.
var ErrVideoNotFound = New(CodeNotFound, "video", "Video not found for this skill", http.StatusNotFound)

// ErrSelfViewRejected - watching your own video never moves tokens.
var ErrSelfViewRejected = New(CodeInvalidOperation, "tokens", "You cannot earn tokens by watching your own videos", http.StatusBadRequest)

// ErrInsufficientTokens - callers attach {currentTokens, required} via WithDetails.
var ErrInsufficientTokens = New(CodeInsufficientTokens, "tokens", "Insufficient tokens to watch this video", http.StatusForbidden)

var ErrUploadNotImplemented = New(CodeNotImplemented, "video", "File upload not yet implemented. Please use URL upload instead.", http.StatusNotImplemented)

// =========================================================================
// Ratings
// =========================================================================

var ErrInvalidRating = New(CodeValidationFailed, "rating", "Rating must be between 1 and 5", http.StatusBadRequest)

var ErrNotMatched = New(CodeForbidden, "rating", "You can only rate videos of matched users", http.StatusForbidden)

var ErrSelfRating = New(CodeInvalidOperation, "rating", "You cannot rate your own video", http.StatusBadRequest)

// =========================================================================
// Skill tests
// =========================================================================

var ErrUnknownSkill = New(CodeNotFound, "skill_test", "Test not found for this skill", http.StatusNotFound)

var ErrInvalidSession = New(CodeInvalidSession, "skill_test", "Invalid test session", http.StatusBadRequest)

var ErrSessionMismatch = New(CodeSessionMismatch, "skill_test", "Test session mismatch", http.StatusBadRequest)

var ErrSessionExpired = New(CodeSessionExpired, "skill_test", "Test session expired", http.StatusBadRequest)

var ErrSessionConsumed = New(CodeSessionConsumed, "skill_test", "Test session already submitted", http.StatusConflict)

var ErrCertificateNotFound = New(CodeNotFound, "skill_test", "Certificate not found", http.StatusNotFound)

// =========================================================================
// Matching & chat
// =========================================================================

var ErrCannotSwipeSelf = New(CodeInvalidOperation, "match", "You cannot swipe on yourself", http.StatusBadRequest)

var ErrChatNotFound = New(CodeNotFound, "chat", "Chat not found", http.StatusNotFound)

var ErrCannotChatSelf = New(CodeInvalidOperation, "chat", "You cannot start a chat with yourself", http.StatusBadRequest)

package contextkeys

// Custom type so keys never collide with other packages.
type contextKey string

// DBContextKey stores the *gorm.DB (pool or transaction) for the request.
const DBContextKey = contextKey("db")

// UserIDKey and UsernameKey are set by the auth middleware on the gin context.
const (
	UserIDKey   = contextKey("userID")
	UsernameKey = contextKey("username")
)

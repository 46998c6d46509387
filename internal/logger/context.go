package logger

import (
	"context"
	"log/slog"
)

type scopeKey struct{}

// scope is the set of log fields carried by a request context. It is copied on
// every change, so contexts derived earlier are never affected.
type scope struct {
	requestID string
	userID    string
	attrs     []any
}

func scopeFrom(ctx context.Context) scope {
	if ctx == nil {
		return scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	s := scopeFrom(ctx)
	s.requestID = requestID
	return context.WithValue(ctx, scopeKey{}, s)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	s := scopeFrom(ctx)
	s.userID = userID
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithAttrs adds key/value pairs to every line logged through ctx.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	s := scopeFrom(ctx)
	s.attrs = append(append(make([]any, 0, len(s.attrs)+len(args)), s.attrs...), args...)
	return context.WithValue(ctx, scopeKey{}, s)
}

func GetRequestID(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

func GetUserID(ctx context.Context) string {
	return scopeFrom(ctx).userID
}

// FromContext returns the global logger enriched with the context's fields.
func FromContext(ctx context.Context) *slog.Logger {
	l := GetLogger()
	s := scopeFrom(ctx)

	fields := make([]any, 0, 4+len(s.attrs))
	if s.requestID != "" {
		fields = append(fields, "request_id", s.requestID)
	}
	if s.userID != "" {
		fields = append(fields, "user_id", s.userID)
	}
	fields = append(fields, s.attrs...)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func CtxDebug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	FromContext(ctx).Error(msg, append([]any{"error", err.Error()}, args...)...)
}

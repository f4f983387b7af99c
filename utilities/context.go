package utilities

import "context"

type contextKey string

const userUIDKey contextKey = "userUID"

// WithUserUID records the authenticated caller on ctx.
func WithUserUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userUIDKey, uid)
}

// UserUID returns the authenticated caller, if any.
func UserUID(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userUIDKey).(string)
	return uid, ok && uid != ""
}

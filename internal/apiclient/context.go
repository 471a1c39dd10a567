package apiclient

import "context"

type ctxKeyToken struct{}

// WithToken attaches the caller's access token; every request made with the
// returned context carries it as a bearer credential.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyToken{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ctxKeyToken{}).(string)
	return token
}

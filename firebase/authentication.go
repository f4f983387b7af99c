package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

var ErrMissingToken = errors.New("authorization header missing")

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

func GetAuthClient(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Auth client: %w", err)
	}
	return client, nil
}

// VerifyUserToken checks a "Bearer <id token>" header and returns the token's UID.
func VerifyUserToken(ctx context.Context, verifier TokenVerifier, authHeader string) (string, error) {
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", ErrMissingToken
	}

	verified, err := verifier.VerifyIDToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("error verifying token: %w", err)
	}
	return verified.UID, nil
}

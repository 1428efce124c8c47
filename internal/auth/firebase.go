package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var ErrFirebaseDisabled = errors.New("firebase login is not configured")

// TokenVerifier resolves an identity-provider ID token to the account uid.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
}

type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(ctx context.Context, credentialsFile, projectID string) (*FirebaseVerifier, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (f *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return token.UID, nil
}

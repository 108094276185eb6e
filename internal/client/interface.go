package client

import (
	"context"

	"reddit-autopost/internal/models"
)

// TokenSource supplies bearer tokens for API calls. Implemented by
// auth.Authenticator; swapped out in tests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	TokenType() string
	Invalidate()
}

type RedditClientInterface interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	UploadMedia(ctx context.Context, filename, mimeType string, data []byte) (string, error)
	Flairs(ctx context.Context, subreddit string) ([]models.Flair, error)
}

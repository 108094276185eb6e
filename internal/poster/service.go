// internal/poster/service.go
package poster

import (
	"context"
	"fmt"
	"strings"

	"reddit-autopost/internal/client"
	"reddit-autopost/internal/models"
	"reddit-autopost/pkg/utils"
)

// PosterService defines the interface for submitting content to Reddit
type PosterService interface {
	SubmitPost(ctx context.Context, req models.PostRequest) (*models.PostResponse, error)
	ListFlairs(ctx context.Context, subreddit string) ([]models.Flair, error)
}

type posterService struct {
	client           client.RedditClientInterface
	fetcher          utils.MediaFetcherInterface
	defaultSubreddit string
}

func NewPosterService(client client.RedditClientInterface, fetcher utils.MediaFetcherInterface, defaultSubreddit string) PosterService {
	return &posterService{
		client:           client,
		fetcher:          fetcher,
		defaultSubreddit: defaultSubreddit,
	}
}

// SubmitPost validates the request, resolves the post type and routes it to
// the matching submission flow.
func (s *posterService) SubmitPost(ctx context.Context, req models.PostRequest) (*models.PostResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Msg: "missing required field: title"}
	}

	if req.Subreddit == "" {
		req.Subreddit = s.defaultSubreddit
	}
	if req.Subreddit == "" {
		return nil, &ValidationError{Msg: "missing required field: subreddit"}
	}

	postType, err := resolvePostType(req)
	if err != nil {
		return nil, err
	}

	var result *client.SubmitResult
	switch postType {
	case models.PostTypeSelf:
		result, err = s.submitSelf(ctx, req)
	case models.PostTypeLink:
		result, err = s.submitLink(ctx, req)
	case models.PostTypeMedia:
		result, err = s.submitMedia(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	return &models.PostResponse{
		Success:  true,
		PostID:   result.ID,
		PostName: result.Name,
		URL:      result.URL,
	}, nil
}

// ListFlairs returns the link flairs selectable on a subreddit.
func (s *posterService) ListFlairs(ctx context.Context, subreddit string) ([]models.Flair, error) {
	if subreddit == "" {
		subreddit = s.defaultSubreddit
	}
	return s.client.Flairs(ctx, subreddit)
}

// resolvePostType validates the content fields against the requested post
// type, inferring the type when absent. Without an explicit type exactly one
// content field must be set; anything else is ambiguous.
func resolvePostType(req models.PostRequest) (string, error) {
	populated := 0
	for _, field := range []string{req.Text, req.URL, req.MediaURL} {
		if field != "" {
			populated++
		}
	}

	switch req.PostType {
	case "":
		if populated == 0 {
			return "", &ValidationError{Msg: "one of text, url or media_url must be set"}
		}
		if populated > 1 {
			return "", &ValidationError{Msg: "ambiguous post: set post_type or exactly one of text, url, media_url"}
		}
		switch {
		case req.Text != "":
			return models.PostTypeSelf, nil
		case req.URL != "":
			return models.PostTypeLink, nil
		default:
			return models.PostTypeMedia, nil
		}

	case models.PostTypeSelf:
		if req.Text == "" {
			return "", &ValidationError{Msg: "post_type self requires text"}
		}
		return models.PostTypeSelf, nil

	case models.PostTypeLink:
		if req.URL == "" {
			return "", &ValidationError{Msg: "post_type link requires url"}
		}
		return models.PostTypeLink, nil

	case models.PostTypeMedia:
		if req.MediaURL == "" {
			return "", &ValidationError{Msg: "post_type media requires media_url"}
		}
		return models.PostTypeMedia, nil

	default:
		return "", &ValidationError{Msg: fmt.Sprintf("unknown post_type: %s", req.PostType)}
	}
}

func (s *posterService) submitSelf(ctx context.Context, req models.PostRequest) (*client.SubmitResult, error) {
	return s.client.Submit(ctx, client.SubmitRequest{
		Subreddit: req.Subreddit,
		Title:     req.Title,
		Kind:      client.KindSelf,
		Text:      req.Text,
		FlairID:   req.FlairID,
	})
}

func (s *posterService) submitLink(ctx context.Context, req models.PostRequest) (*client.SubmitResult, error) {
	return s.client.Submit(ctx, client.SubmitRequest{
		Subreddit: req.Subreddit,
		Title:     req.Title,
		Kind:      client.KindLink,
		URL:       req.URL,
		Text:      req.Text,
		FlairID:   req.FlairID,
	})
}

// submitMedia downloads the media, uploads it to Reddit's media host and
// submits the hosted URL as an image or video post.
func (s *posterService) submitMedia(ctx context.Context, req models.PostRequest) (*client.SubmitResult, error) {
	file, err := s.fetcher.Fetch(ctx, req.MediaURL)
	if err != nil {
		return nil, fmt.Errorf("fetching media %s: %w", req.MediaURL, err)
	}

	location, err := s.client.UploadMedia(ctx, file.Name, file.MIME, file.Data)
	if err != nil {
		return nil, fmt.Errorf("uploading media: %w", err)
	}

	kind := client.KindImage
	if strings.HasPrefix(file.MIME, "video/") {
		kind = client.KindVideo
	}

	return s.client.Submit(ctx, client.SubmitRequest{
		Subreddit: req.Subreddit,
		Title:     req.Title,
		Kind:      kind,
		URL:       location,
		Text:      req.Text,
		FlairID:   req.FlairID,
	})
}

// ValidationError marks a malformed post request; the HTTP layer maps it to
// a 400 response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

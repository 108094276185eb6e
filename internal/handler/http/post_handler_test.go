package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"reddit-autopost/internal/client"
	handler "reddit-autopost/internal/handler/http"
	"reddit-autopost/internal/models"
	"reddit-autopost/internal/poster"
)

type MockPosterService struct {
	SubmitPostFunc func(ctx context.Context, req models.PostRequest) (*models.PostResponse, error)
	ListFlairsFunc func(ctx context.Context, subreddit string) ([]models.Flair, error)
}

func (m *MockPosterService) SubmitPost(ctx context.Context, req models.PostRequest) (*models.PostResponse, error) {
	return m.SubmitPostFunc(ctx, req)
}

func (m *MockPosterService) ListFlairs(ctx context.Context, subreddit string) ([]models.Flair, error) {
	return m.ListFlairsFunc(ctx, subreddit)
}

func postContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/post", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSubmitPostHandler(t *testing.T) {
	c, rec := postContext(t, `{"title":"Hello","text":"body","subreddit":"test"}`)

	mockService := &MockPosterService{
		SubmitPostFunc: func(ctx context.Context, req models.PostRequest) (*models.PostResponse, error) {
			if req.Title != "Hello" || req.Text != "body" || req.Subreddit != "test" {
				t.Errorf("Request not bound correctly: %+v", req)
			}
			return &models.PostResponse{
				Success:  true,
				PostID:   "abc",
				PostName: "t3_abc",
				URL:      "https://www.reddit.com/r/test/comments/abc/",
			}, nil
		},
	}

	h := handler.NewPostHandler(mockService)
	if err := h.SubmitPost(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response models.PostResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !response.Success || response.PostID != "abc" {
		t.Errorf("Unexpected response: %+v", response)
	}
}

func TestSubmitPostHandlerValidationError(t *testing.T) {
	c, _ := postContext(t, `{"title":"Hello"}`)

	mockService := &MockPosterService{
		SubmitPostFunc: func(ctx context.Context, req models.PostRequest) (*models.PostResponse, error) {
			return nil, &poster.ValidationError{Msg: "one of text, url or media_url must be set"}
		},
	}

	err := handler.NewPostHandler(mockService).SubmitPost(c)
	if err == nil {
		t.Fatal("Expected error from handler")
	}

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", httpErr.Code)
	}
}

func TestSubmitPostHandlerInvalidJSON(t *testing.T) {
	c, _ := postContext(t, `{not json`)

	mockService := &MockPosterService{
		SubmitPostFunc: func(ctx context.Context, req models.PostRequest) (*models.PostResponse, error) {
			t.Fatal("Service should not be called for malformed JSON")
			return nil, nil
		},
	}

	err := handler.NewPostHandler(mockService).SubmitPost(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for malformed JSON, got %v", err)
	}
}

func TestSubmitPostHandlerRateLimitPassthrough(t *testing.T) {
	c, _ := postContext(t, `{"title":"Hello","text":"body"}`)

	mockService := &MockPosterService{
		SubmitPostFunc: func(ctx context.Context, req models.PostRequest) (*models.PostResponse, error) {
			return nil, &client.APIError{StatusCode: http.StatusTooManyRequests, Body: "slow down"}
		},
	}

	err := handler.NewPostHandler(mockService).SubmitPost(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 passthrough, got %v", err)
	}
}

func TestSubmitPostHandlerUpstreamError(t *testing.T) {
	c, _ := postContext(t, `{"title":"Hello","text":"body"}`)

	mockService := &MockPosterService{
		SubmitPostFunc: func(ctx context.Context, req models.PostRequest) (*models.PostResponse, error) {
			return nil, &client.APIError{StatusCode: http.StatusInternalServerError, Body: "boom"}
		},
	}

	err := handler.NewPostHandler(mockService).SubmitPost(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502 for upstream failure, got %v", err)
	}
}

func TestListFlairsHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/flairs?subreddit=golang", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mockService := &MockPosterService{
		ListFlairsFunc: func(ctx context.Context, subreddit string) ([]models.Flair, error) {
			if subreddit != "golang" {
				t.Errorf("Expected subreddit golang, got %q", subreddit)
			}
			return []models.Flair{{ID: "f1", Text: "Discussion"}}, nil
		},
	}

	if err := handler.NewPostHandler(mockService).ListFlairs(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var flairs []models.Flair
	if err := json.Unmarshal(rec.Body.Bytes(), &flairs); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(flairs) != 1 || flairs[0].ID != "f1" {
		t.Errorf("Unexpected flairs: %+v", flairs)
	}
}

func TestHealthHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.NewHealthHandler().Check(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", response["status"])
	}
}

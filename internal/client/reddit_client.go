// internal/client/reddit_client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"reddit-autopost/internal/config"
	"reddit-autopost/internal/models"
)

const secondsPerMinute = 60.0

// Kinds accepted by /api/submit.
const (
	KindSelf  = "self"
	KindLink  = "link"
	KindImage = "image"
	KindVideo = "video"
)

// RedditClient talks to oauth.reddit.com on behalf of the authenticated
// account. All calls wait on the shared rate limiter before hitting the API.
type RedditClient struct {
	client    *http.Client
	auth      TokenSource
	userAgent string
	baseURL   string
	limiter   *rate.Limiter
}

func NewRedditClient(cfg *config.Config, auth TokenSource) (*RedditClient, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user agent is required")
	}
	if auth == nil {
		return nil, fmt.Errorf("token source is required")
	}

	perMinute := cfg.RatePerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 10
	}

	return &RedditClient{
		client:    &http.Client{Timeout: cfg.RequestTimeout},
		auth:      auth,
		userAgent: cfg.UserAgent,
		baseURL:   strings.TrimSuffix(cfg.APIBaseURL, "/"),
		limiter:   rate.NewLimiter(rate.Limit(perMinute/secondsPerMinute), burst),
	}, nil
}

// SubmitRequest is the payload for /api/submit, already validated and with
// the kind resolved by the caller.
type SubmitRequest struct {
	Subreddit string
	Title     string
	Kind      string
	Text      string
	URL       string
	FlairID   string
}

// SubmitResult carries the fields Reddit reports for a created post.
type SubmitResult struct {
	ID   string
	Name string
	URL  string
}

type submitEnvelope struct {
	JSON struct {
		Errors [][]string `json:"errors"`
		Data   struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"data"`
	} `json:"json"`
}

// Submit creates a post via /api/submit and returns the created post's
// identifiers. Field errors reported by Reddit become a *SubmitError.
func (r *RedditClient) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("sr", req.Subreddit)
	form.Set("title", req.Title)
	form.Set("kind", req.Kind)

	switch req.Kind {
	case KindSelf:
		form.Set("text", req.Text)
	default:
		form.Set("url", req.URL)
		if req.Text != "" {
			form.Set("text", req.Text)
		}
	}

	if req.FlairID != "" {
		form.Set("flair_id", req.FlairID)
	}

	bodyBytes, err := r.doAuthed(ctx, http.MethodPost, "/api/submit", form)
	if err != nil {
		return nil, fmt.Errorf("submit request: %w", err)
	}

	var envelope submitEnvelope
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		return nil, fmt.Errorf("decoding submit response: %w", err)
	}

	if len(envelope.JSON.Errors) > 0 {
		return nil, &SubmitError{Errors: envelope.JSON.Errors}
	}

	return &SubmitResult{
		ID:   envelope.JSON.Data.ID,
		Name: envelope.JSON.Data.Name,
		URL:  envelope.JSON.Data.URL,
	}, nil
}

type uploadLease struct {
	Args struct {
		Action string `json:"action"`
		Fields []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"fields"`
	} `json:"args"`
	Asset struct {
		AssetID string `json:"asset_id"`
	} `json:"asset"`
}

type s3PostResponse struct {
	XMLName  xml.Name `xml:"PostResponse"`
	Location string   `xml:"Location"`
	Key      string   `xml:"Key"`
}

// UploadMedia obtains an upload lease from /api/media/asset and pushes the
// file to the storage host named in the lease. Returns the hosted URL that
// can be submitted as a media post.
func (r *RedditClient) UploadMedia(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	form := url.Values{}
	form.Set("filepath", filename)
	form.Set("mimetype", mimeType)

	leaseBytes, err := r.doAuthed(ctx, http.MethodPost, "/api/media/asset", form)
	if err != nil {
		return "", fmt.Errorf("requesting upload lease: %w", err)
	}

	var lease uploadLease
	if err := json.Unmarshal(leaseBytes, &lease); err != nil {
		return "", fmt.Errorf("decoding upload lease: %w", err)
	}
	if lease.Args.Action == "" || len(lease.Args.Fields) == 0 {
		return "", fmt.Errorf("upload lease missing action or fields")
	}

	uploadURL := lease.Args.Action
	if strings.HasPrefix(uploadURL, "//") {
		uploadURL = "https:" + uploadURL
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	// Lease fields must precede the file part, in lease order.
	for _, field := range lease.Args.Fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return "", fmt.Errorf("writing lease field %s: %w", field.Name, err)
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("writing file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading media: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBytes)}
	}

	var posted s3PostResponse
	if err := xml.Unmarshal(respBytes, &posted); err != nil {
		return "", fmt.Errorf("parsing upload response: %w", err)
	}
	if posted.Location == "" {
		return "", fmt.Errorf("upload response missing location")
	}

	return posted.Location, nil
}

type flairEntry struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	BackgroundColor string `json:"background_color"`
	TextEditable    bool   `json:"text_editable"`
}

// Flairs lists the link flair templates selectable on a subreddit.
func (r *RedditClient) Flairs(ctx context.Context, subreddit string) ([]models.Flair, error) {
	path := fmt.Sprintf("/r/%s/api/link_flair_v2", url.PathEscape(subreddit))

	bodyBytes, err := r.doAuthed(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("flair request: %w", err)
	}

	var entries []flairEntry
	if err := json.Unmarshal(bodyBytes, &entries); err != nil {
		return nil, fmt.Errorf("decoding flair response: %w", err)
	}

	flairs := make([]models.Flair, 0, len(entries))
	for _, e := range entries {
		flairs = append(flairs, models.Flair{
			ID:              e.ID,
			Text:            e.Text,
			BackgroundColor: e.BackgroundColor,
			TextEditable:    e.TextEditable,
		})
	}
	return flairs, nil
}

// doAuthed performs an authenticated API call. A 401 invalidates the cached
// token and the call is retried exactly once with a fresh one.
func (r *RedditClient) doAuthed(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	bodyBytes, statusCode, err := r.doOnce(ctx, method, path, form)
	if err != nil {
		return nil, err
	}
	if statusCode == http.StatusUnauthorized {
		r.auth.Invalidate()
		bodyBytes, statusCode, err = r.doOnce(ctx, method, path, form)
		if err != nil {
			return nil, err
		}
	}

	if statusCode < 200 || statusCode >= 300 {
		return nil, &APIError{StatusCode: statusCode, Body: string(bodyBytes)}
	}

	return bodyBytes, nil
}

func (r *RedditClient) doOnce(ctx context.Context, method, path string, form url.Values) ([]byte, int, error) {
	token, err := r.auth.Token(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquiring token: %w", err)
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", capitalize(r.auth.TokenType())+" "+token)
	req.Header.Set("User-Agent", r.userAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response body: %w", err)
	}

	return bodyBytes, resp.StatusCode, nil
}

// capitalize turns the token_type Reddit reports ("bearer") into the header
// form ("Bearer").
func capitalize(s string) string {
	if s == "" {
		return "Bearer"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// APIError is a non-2xx response from the Reddit API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reddit api error: status code %d, body: %q", e.StatusCode, e.Body)
}

// SubmitError carries the field errors Reddit reports inside a 200 response,
// e.g. [["SUBREDDIT_NOEXIST", "that subreddit doesn't exist", "sr"]].
type SubmitError struct {
	Errors [][]string
}

func (e *SubmitError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fields := range e.Errors {
		parts = append(parts, strings.Join(fields, ": "))
	}
	return "reddit rejected submission: " + strings.Join(parts, "; ")
}

// internal/models/models.go
package models

// Post types accepted in PostRequest.PostType. When the field is empty the
// type is inferred from which content field is populated.
const (
	PostTypeSelf  = "self"
	PostTypeLink  = "link"
	PostTypeMedia = "media"
)

// PostRequest is the body of POST /post
// swagger:model PostRequest
type PostRequest struct {
	// Post title
	Title string `json:"title"`
	// Post body for self posts, or additional text for link posts
	Text string `json:"text,omitempty"`
	// Target URL for link posts
	URL string `json:"url,omitempty"`
	// URL of an image or video to upload for media posts
	MediaURL string `json:"media_url,omitempty"`
	// Subreddit name without the r/ prefix; falls back to the configured default
	Subreddit string `json:"subreddit,omitempty"`
	// Post type (self, link or media); inferred when absent
	PostType string `json:"post_type,omitempty"`
	// Flair template ID to attach to the post
	FlairID string `json:"flair_id,omitempty"`
}

// PostResponse is returned after a successful submission
// swagger:model PostResponse
type PostResponse struct {
	// Always true on success
	Success bool `json:"success"`
	// Short post ID assigned by Reddit
	PostID string `json:"post_id"`
	// Fullname of the created post (t3_ prefixed)
	PostName string `json:"post_name"`
	// Public URL of the created post
	URL string `json:"url"`
}

// Flair is a selectable link flair on a subreddit
// swagger:model Flair
type Flair struct {
	// Flair template ID, usable as flair_id when submitting
	ID string `json:"id"`
	// Flair display text
	Text string `json:"text"`
	// Background color as a hex string
	BackgroundColor string `json:"background_color,omitempty"`
	// Whether the flair text is editable by the submitter
	TextEditable bool `json:"text_editable,omitempty"`
}

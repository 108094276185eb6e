// internal/handler/http/post_handler.go
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"reddit-autopost/internal/client"
	"reddit-autopost/internal/models"
	"reddit-autopost/internal/poster"
)

type PostHandler struct {
	svc poster.PosterService
}

func NewPostHandler(svc poster.PosterService) *PostHandler {
	return &PostHandler{svc: svc}
}

// SubmitPost godoc
// @Summary Submit a post to Reddit
// @Description Submits a self, link or media post to a subreddit. The post type is inferred from which content field is set when post_type is absent.
// @Tags post
// @Accept json
// @Produce json
// @Param request body models.PostRequest true "Post to submit"
// @Success 200 {object} models.PostResponse
// @Failure 400 {object} models.HTTPError
// @Failure 429 {object} models.HTTPError
// @Failure 502 {object} models.HTTPError
// @Router /post [post]
func (h *PostHandler) SubmitPost(c echo.Context) error {
	var req models.PostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 300*time.Second)
	defer cancel()

	resp, err := h.svc.SubmitPost(ctx, req)
	if err != nil {
		return mapSubmitError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListFlairs godoc
// @Summary List link flairs for a subreddit
// @Description Retrieves the flair templates selectable when submitting, so callers can discover flair_id values
// @Tags post
// @Accept json
// @Produce json
// @Param subreddit query string false "Subreddit name without the r/ prefix; defaults to the configured subreddit"
// @Success 200 {array} models.Flair
// @Failure 429 {object} models.HTTPError
// @Failure 502 {object} models.HTTPError
// @Router /flairs [get]
func (h *PostHandler) ListFlairs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	flairs, err := h.svc.ListFlairs(ctx, c.QueryParam("subreddit"))
	if err != nil {
		return mapSubmitError(err)
	}
	return c.JSON(http.StatusOK, flairs)
}

// mapSubmitError translates service errors into HTTP statuses: validation
// failures are 400, an upstream 429 is passed through, everything else from
// the platform is a 502.
func mapSubmitError(err error) error {
	var validationErr *poster.ValidationError
	if errors.As(err, &validationErr) {
		return echo.NewHTTPError(http.StatusBadRequest, validationErr.Msg)
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited by Reddit")
	}

	return echo.NewHTTPError(http.StatusBadGateway, err.Error())
}

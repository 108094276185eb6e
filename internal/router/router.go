// internal/router/router.go
package router

import (
	"reddit-autopost/internal/handler/http"
	"reddit-autopost/internal/poster"

	"github.com/labstack/echo/v4"
)

func NewRouter(e *echo.Echo, svc poster.PosterService) {
	pst := http.NewPostHandler(svc)
	hlt := http.NewHealthHandler()

	e.POST("/post", pst.SubmitPost)
	e.GET("/flairs", pst.ListFlairs)
	e.GET("/health", hlt.Check)
}

// internal/app/app.go
package app

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"reddit-autopost/internal/auth"
	"reddit-autopost/internal/client"
	"reddit-autopost/internal/config"
	"reddit-autopost/internal/poster"
	"reddit-autopost/internal/router"
	"reddit-autopost/pkg/utils"
)

type App struct {
	Config  *config.Config
	Echo    *echo.Echo
	Service poster.PosterService
	Client  *client.RedditClient
	Auth    *auth.Authenticator
}

func Initialize() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	authenticator, err := auth.NewAuthenticator(&http.Client{Timeout: cfg.RequestTimeout}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	redditClient, err := client.NewRedditClient(cfg, authenticator)
	if err != nil {
		return nil, fmt.Errorf("failed to create Reddit client: %w", err)
	}

	fetcher, err := utils.NewMediaFetcher(cfg.MediaProxyURLs, cfg.MaxRetries, cfg.MediaMaxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create media fetcher: %w", err)
	}

	posterService := poster.NewPosterService(redditClient, fetcher, cfg.DefaultSubreddit)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	router.NewRouter(e, posterService)

	return &App{
		Config:  cfg,
		Echo:    e,
		Service: posterService,
		Client:  redditClient,
		Auth:    authenticator,
	}, nil
}

func (a *App) Start() error {
	port := a.Config.ServerPort
	if port == "" {
		port = "8080"
	}
	return a.Echo.Start(":" + port)
}

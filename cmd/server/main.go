// cmd/server/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "reddit-autopost/docs"
	"reddit-autopost/internal/app"
)

// @title Reddit Autopost API
// @version 1.0
// @description This API authenticates to Reddit via OAuth2 and submits self, link and media posts to a subreddit.
// @termsOfService http://swagger.io/terms/
//
// @contact.name API Support
// @contact.email support@example.com
//
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
//
// @host localhost:8080
// @BasePath /

func main() {
	application, err := app.Initialize()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Authenticate once up front so bad credentials fail the process
	// instead of the first request.
	authCtx, authCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := application.Auth.Token(authCtx); err != nil {
		authCancel()
		log.Fatalf("Failed to authenticate with Reddit: %v", err)
	}
	authCancel()
	log.Println("Authenticated with Reddit")

	go func() {
		if err := application.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("Server started successfully")
	log.Printf("Swagger documentation available at http://localhost:%s/swagger/index.html", application.Config.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := application.Echo.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

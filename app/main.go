package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/inkwell-blog/inkwell/domain"
	"github.com/inkwell-blog/inkwell/internal/api"
	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/auth/redisnotify"
	"github.com/inkwell-blog/inkwell/internal/images"
	"github.com/inkwell-blog/inkwell/internal/store"
	"github.com/inkwell-blog/inkwell/internal/web"
)

const (
	defaultAPIBase = "http://localhost:8080/api"
	defaultAddress = ":3000"
	defaultTimeout = 15
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
}

func main() {
	// prepare backend client
	apiBase := os.Getenv("API_BASE_URL")
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	timeoutStr := os.Getenv("HTTP_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: time.Duration(timeout) * time.Second}

	// prepare session store; SESSION_FILE=none runs without persistence
	var sessions domain.SessionStore
	switch path := os.Getenv("SESSION_FILE"); path {
	case "none":
		sessions = store.NewNoopStore()
	case "":
		sessions = store.Open()
	default:
		sessions = store.NewFileStore(path)
	}
	observer := auth.NewObserver(sessions)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// prepare session change notifier, cross-process via Redis when configured
	var notifier auth.Notifier = auth.NewLocalNotifier()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASS"),
		})
		defer func() {
			if err := client.Close(); err != nil {
				log.Println("got error when closing the Redis connection", err)
			}
		}()

		if _, err := client.Ping(ctx).Result(); err != nil {
			log.Fatal("failed to open connection to Redis", err)
		}
		rn := redisnotify.New(client)
		rn.Start(ctx)
		notifier = rn
	}

	// build service layer
	authSvc := auth.NewService(apiBase+"/auth", httpClient, sessions, observer, notifier)
	articles := api.NewArticleClient(apiBase+"/articles", httpClient, authSvc)

	// prepare image host
	var imageHost *images.GitHubHost
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		imageHost = images.NewGitHubHost(images.Config{
			Token:  token,
			Owner:  os.Getenv("GITHUB_OWNER"),
			Repo:   os.Getenv("GITHUB_REPO"),
			Branch: os.Getenv("GITHUB_BRANCH"),
		}, httpClient)
	} else {
		log.Println("GITHUB_TOKEN not set, image uploads disabled")
	}

	handler := web.NewHandler(articles, authSvc, observer, imageHost)
	route := web.NewRouter(handler, observer)

	// start server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MikeMC777/ordini-tipografia/internal/config"
	"github.com/MikeMC777/ordini-tipografia/internal/db"
	"github.com/MikeMC777/ordini-tipografia/internal/dispatch"
	"github.com/MikeMC777/ordini-tipografia/internal/httpx"
	"github.com/MikeMC777/ordini-tipografia/internal/logging"
	"github.com/MikeMC777/ordini-tipografia/internal/storage"
	"github.com/MikeMC777/ordini-tipografia/internal/typography"
)

func newRouter(n dispatch.Notifier, apiKeyHash string, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(log))
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/functions/send-order-email", httpx.APIKey(apiKeyHash), dispatch.Handler(n))
	return r
}

func main() {
	cfg := config.Load()
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	store, err := storage.NewS3Store(ctx, storage.Options{
		Bucket:          cfg.Storage.Bucket,
		Region:          cfg.Storage.Region,
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	if cfg.WebhookURL == "" {
		log.Warn("WEBHOOK_URL is empty; every send will fail with 500")
	}
	relay := dispatch.NewRelay(typography.NewPGRepo(pool), store, dispatch.NewWebhookClient(cfg.WebhookURL, cfg.WebhookTimeout))

	srv := &http.Server{
		Addr:              cfg.RelayAddr,
		Handler:           newRouter(relay, cfg.APIKeyHash, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("dispatch-relay listening on %s", cfg.RelayAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}

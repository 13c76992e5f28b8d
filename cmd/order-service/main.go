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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/ordini-tipografia/docs"
	"github.com/MikeMC777/ordini-tipografia/internal/config"
	"github.com/MikeMC777/ordini-tipografia/internal/db"
	"github.com/MikeMC777/ordini-tipografia/internal/dispatch"
	"github.com/MikeMC777/ordini-tipografia/internal/httpx"
	"github.com/MikeMC777/ordini-tipografia/internal/logging"
	"github.com/MikeMC777/ordini-tipografia/internal/notify"
	"github.com/MikeMC777/ordini-tipografia/internal/order"
	"github.com/MikeMC777/ordini-tipografia/internal/pdf"
	"github.com/MikeMC777/ordini-tipografia/internal/storage"
	"github.com/MikeMC777/ordini-tipografia/internal/typography"
)

type deps struct {
	orders     *order.Service
	typos      typography.Repository
	renderer   *pdf.Renderer
	dispatcher *dispatch.Dispatcher
	sends      dispatch.SendRepository
	relay      dispatch.Notifier
	events     notify.Queue
	apiKeyHash string
}

func newRouter(d deps, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(log))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/", httpx.APIKey(d.apiKeyHash))
	api.GET("/orders/next-number", nextNumberHandler(d.orders))
	api.GET("/orders", listOrdersHandler(d.orders))
	api.POST("/orders", createOrderHandler(d.orders, d.events))
	api.GET("/orders/:id", getOrderHandler(d.orders))
	api.PUT("/orders/:id", updateOrderHandler(d.orders, d.events))
	api.GET("/orders/:id/pdf", orderPDFHandler(d.orders, d.renderer))
	api.PUT("/orders/:id/status", updateStatusHandler(d.orders, d.events))
	api.DELETE("/orders/:id", deleteOrderHandler(d.orders, d.events))
	api.POST("/orders/:id/dispatch", dispatchOrderHandler(d.dispatcher, d.events))
	api.GET("/orders/:id/sends", listSendsHandler(d.orders, d.sends))

	api.GET("/typographies", listTypographiesHandler(d.typos))
	api.GET("/typographies/:id", getTypographyHandler(d.typos))
	api.POST("/typographies", createTypographyHandler(d.typos, d.events))
	api.PUT("/typographies/:id", updateTypographyHandler(d.typos, d.events))
	api.DELETE("/typographies/:id", deleteTypographyHandler(d.typos, d.events))

	api.POST("/functions/send-order-email", dispatch.Handler(d.relay))
	api.GET("/notifications", notificationsHandler(d.events))
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
	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("db: %v", err)
	}

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

	var events notify.Queue = notify.NewMemoryQueue(cfg.NotifyCapacity)
	if cfg.RedisURL != "" {
		rq, err := notify.NewRedisQueue(cfg.RedisURL, cfg.NotifyChannel, cfg.NotifyCapacity)
		if err != nil {
			log.Fatalf("notify: %v", err)
		}
		defer rq.Close()
		events = rq
	}

	orderRepo := order.NewPGRepo(pool)
	typos := typography.NewPGRepo(pool)
	sends := dispatch.NewPGSendRepo(pool)
	renderer := pdf.NewRenderer(cfg.CompanyName)

	relay := dispatch.NewRelay(typos, store, dispatch.NewWebhookClient(cfg.WebhookURL, cfg.WebhookTimeout))
	var notifier dispatch.Notifier = relay
	if cfg.RelayURL != "" {
		notifier = dispatch.NewRelayClient(cfg.RelayURL, cfg.RelayAPIKey, cfg.WebhookTimeout)
	}

	d := deps{
		orders:   order.NewService(orderRepo, order.NewAllocator(orderRepo, cfg.OrderNumberPrefix), cfg.OrderCreateMaxAttempts),
		typos:    typos,
		renderer: renderer,
		dispatcher: &dispatch.Dispatcher{
			Orders:       orderRepo,
			Typographies: typos,
			Renderer:     renderer,
			Store:        store,
			Sends:        sends,
			Notifier:     notifier,
			Log:          log.WithField("component", "dispatch"),
		},
		sends:      sends,
		relay:      relay,
		events:     events,
		apiKeyHash: cfg.APIKeyHash,
	}

	srv := &http.Server{
		Addr:              cfg.OrderSvcAddr,
		Handler:           newRouter(d, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("order-service listening on %s", cfg.OrderSvcAddr)
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

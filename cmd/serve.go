package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OwaisShaikh-8/Instant-Meal/auth"
	"github.com/OwaisShaikh-8/Instant-Meal/cart"
	"github.com/OwaisShaikh-8/Instant-Meal/config"
	orderControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/order"
	"github.com/OwaisShaikh-8/Instant-Meal/database"
	"github.com/OwaisShaikh-8/Instant-Meal/events"
	"github.com/OwaisShaikh-8/Instant-Meal/routes"
	"github.com/OwaisShaikh-8/Instant-Meal/storage"
	"github.com/OwaisShaikh-8/Instant-Meal/telemetry"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg)
	},
}

// closers are run in reverse order on shutdown.
type closers []func()

func (cs closers) run() {
	for i := len(cs) - 1; i >= 0; i-- {
		cs[i]()
	}
}

func buildImageStore(ctx context.Context, sc config.StorageConfig) (storage.ImageStore, error) {
	switch sc.Driver {
	case "s3":
		return storage.NewS3Store(ctx, sc.S3Bucket, sc.S3Region, sc.S3BaseURL, sc.MaxImageBytes)
	default:
		return storage.NewLocalStore(sc.UploadsDir, sc.PublicURL, sc.MaxImageBytes)
	}
}

func buildCartStore(ctx context.Context, rc config.RedisConfig, cs *closers) (cart.Store, error) {
	if rc.URL == "" {
		log.Println("🛒 Carts kept in memory")
		return cart.NewMemoryStore(), nil
	}
	opts, err := redis.ParseURL(rc.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	*cs = append(*cs, func() { client.Close() })
	log.Println("🛒 Carts kept in Redis")
	return cart.NewRedisStore(client, rc.KeyPrefix, rc.CartTTL), nil
}

func buildPublisher(ec config.EventsConfig, cs *closers) (events.Publisher, *events.Hub, error) {
	var pubs events.Multi
	var hub *events.Hub
	if ec.Websocket {
		hub = events.NewHub()
		pubs = append(pubs, hub)
	}
	if ec.Driver == "rabbitmq" {
		rp, err := events.NewRabbitPublisher(ec.RabbitURL, ec.Exchange)
		if err != nil {
			return nil, nil, err
		}
		*cs = append(*cs, func() { rp.Close() })
		pubs = append(pubs, rp)
		log.Printf("📣 Publishing order events to exchange %s", ec.Exchange)
	}
	return pubs, hub, nil
}

// BuildDeps opens every backend the handlers need. The returned func
// releases them.
func BuildDeps(ctx context.Context, c *config.Config) (routes.Deps, func(), error) {
	var cs closers
	fail := func(err error) (routes.Deps, func(), error) {
		cs.run()
		return routes.Deps{}, func() {}, err
	}

	db, err := database.Open(c.Database)
	if err != nil {
		return fail(err)
	}
	if sqlDB, err := db.DB(); err == nil {
		cs = append(cs, func() { sqlDB.Close() })
	}
	if err := database.Migrate(db); err != nil {
		return fail(err)
	}

	images, err := buildImageStore(ctx, c.Storage)
	if err != nil {
		return fail(err)
	}
	carts, err := buildCartStore(ctx, c.Redis, &cs)
	if err != nil {
		return fail(err)
	}
	pub, hub, err := buildPublisher(c.Events, &cs)
	if err != nil {
		return fail(err)
	}

	d := routes.Deps{
		DB:           db,
		Tokens:       auth.NewTokens(c.Auth.JWTSecret, c.Auth.TokenTTL),
		CookieSecure: c.Auth.CookieSecure,
		AdminAPIKey:  c.Auth.AdminAPIKey,
		Images:       images,
		Carts:        carts,
		Hub:          hub,
		Orders: orderControllers.NewLifecycle(db, images, pub, orderControllers.Options{
			VerifyTotals:      c.Orders.VerifyTotals,
			StrictTransitions: c.Orders.StrictTransitions,
		}),
	}
	if c.Storage.Driver == "local" {
		d.UploadsDir = c.Storage.UploadsDir
	}
	return d, cs.run, nil
}

// NewEngine builds the gin engine with CORS and every route.
func NewEngine(c *config.Config, d routes.Deps) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     c.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "If-Match"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "ETag"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, d)
	return r
}

func serve(ctx context.Context, c *config.Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, release, err := BuildDeps(ctx, c)
	if err != nil {
		return err
	}
	defer release()

	var handler http.Handler = NewEngine(c, d)
	if c.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(c.Telemetry.ServiceName, os.Stdout)
		if err != nil {
			return err
		}
		defer shutdown(context.Background())
		handler = telemetry.Wrap(handler, c.Telemetry.ServiceName)
	}

	// Back up images at a fixed hour daily, keeping a few days of copies
	if c.Storage.Driver == "local" && c.Storage.BackupDir != "" {
		go storage.Backup{
			SrcDir:    c.Storage.UploadsDir,
			BackupDir: c.Storage.BackupDir,
			Retention: c.Storage.BackupRetention,
			Hour:      c.Storage.BackupHour,
		}.Run(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + c.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server running on port %s...", c.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

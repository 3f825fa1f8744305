package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rabbitmq/amqp091-go"

	"github.com/unl-extension/metas/backend/internal/queue"
	mid "github.com/unl-extension/metas/backend/internal/server/middleware"
	"github.com/unl-extension/metas/backend/internal/storage"
	"github.com/unl-extension/metas/backend/internal/util"
	"github.com/unl-extension/metas/backend/pkg/catalog"
	"github.com/unl-extension/metas/backend/pkg/logger"
	"github.com/unl-extension/metas/backend/pkg/metas"
	pgstore "github.com/unl-extension/metas/backend/pkg/store/pgx"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// New builds the echo instance serving app.
func New(app *mid.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("2M"))

	RegisterRoutes(e)
	return e
}

func Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	k, err := keyfunc.NewDefault([]string{util.GetEnv("AUTH_URL") + "/jwks"})
	if err != nil {
		logger.Fatal("Failed to load jwks keys", "err", err)
	}

	databaseURL := util.GetEnv("DATABASE_URL")
	if err := pgstore.Migrate(databaseURL, util.GetEnvString("MIGRATIONS_DIR", "migrations")); err != nil {
		logger.Fatal("Failed to migrate database", "err", err)
	}
	conn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()
	db := pgstore.NewDBStorageWithConnection(conn)

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()
	if err := queue.SetupQueues(ch, queue.WorkQueues); err != nil {
		logger.Fatal("Failed to setup queues", "err", err)
	}

	s3, err := storage.NewS3Client(ctx)
	if err != nil {
		logger.Fatal("Failed to create s3 client", "err", err)
	}

	metasClient := metas.NewClient(metas.NewClientParams{
		BaseURL: util.GetEnv("METAS_API_URL"),
		Timeout: util.GetEnvDuration("METAS_TIMEOUT", metas.DefaultTimeout),
		Retries: int(util.GetEnvNumeric("METAS_RETRIES", 3)),
	})
	serviceToken := util.GetEnv("METAS_SERVICE_TOKEN")

	svc := catalog.NewService(metasClient.WithToken(serviceToken), catalog.Options{
		TTL:   util.GetEnvDuration("CATALOG_TTL", catalog.DefaultTTL),
		Store: db,
	})
	if err := svc.Warm(ctx); err != nil {
		logger.Info("No stored catalog, loading on first request", "err", err)
	}
	go followCatalogUpdates(ctx, que, svc)

	app := &mid.App{
		DBConn:             conn,
		Queue:              ch,
		Key:                k.Keyfunc,
		S3:                 s3,
		Objects:            s3,
		Bucket:             storage.Bucket(),
		Metas:              metasClient,
		Catalog:            svc,
		Exports:            db,
		SummaryConcurrency: int(util.GetEnvNumeric("SUMMARY_CONCURRENCY", 4)),
		MasterAPIKey:       util.GetEnv("MASTER_API_KEY"),
		MasterUserID:       int64(util.GetEnvNumeric("MASTER_USER_ID", 0)),
		MasterUserRole:     util.GetEnv("MASTER_USER_ROLE"),
		ServiceToken:       serviceToken,
	}
	e := New(app)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// followCatalogUpdates loads the catalog stored by a worker whenever one
// announces a refresh, so every API process serves the same snapshot.
func followCatalogUpdates(ctx context.Context, conn *amqp091.Connection, svc *catalog.Service) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("[Catalog] Failed to open subscriber channel", "err", err)
		return
	}
	defer ch.Close()

	deliveries, err := queue.SubscribeTopic(ch, queue.TopicCatalogUpdated)
	if err != nil {
		logger.Error("[Catalog] Failed to subscribe to catalog updates", "err", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("[Catalog] Catalog update subscription closed")
				return
			}
			var msg queue.CatalogUpdatedMsg
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				logger.Warn("[Catalog] Invalid catalog update", "err", err)
				continue
			}
			if err := svc.Warm(ctx); err != nil {
				logger.Error("[Catalog] Failed to load stored catalog", "err", err)
				continue
			}
			logger.Debug("[Catalog] Applied catalog update", "loaded_at", msg.LoadedAt, "entries", msg.Entries)
		}
	}
}

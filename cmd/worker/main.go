package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/unl-extension/metas/backend/internal/metrics"
	"github.com/unl-extension/metas/backend/internal/queue"
	"github.com/unl-extension/metas/backend/internal/storage"
	"github.com/unl-extension/metas/backend/internal/util"
	"github.com/unl-extension/metas/backend/pkg/catalog"
	"github.com/unl-extension/metas/backend/pkg/leaselock"
	"github.com/unl-extension/metas/backend/pkg/logger"
	"github.com/unl-extension/metas/backend/pkg/logger/console"
	"github.com/unl-extension/metas/backend/pkg/metas"
	pgstore "github.com/unl-extension/metas/backend/pkg/store/pgx"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		JSON:   util.GetEnvBool("LOG_JSON", false),
		Prefix: "worker",
	})
	logger.Init(consoleLogger)

	// Init s3 client
	s3Client, err := storage.NewS3Client(ctx)
	if err != nil {
		logger.Fatal("Could not create s3 client", "err", err)
	}

	// Init pgx client
	databaseURL := util.GetEnv("DATABASE_URL")
	if err := pgstore.Migrate(databaseURL, util.GetEnvString("MIGRATIONS_DIR", "migrations")); err != nil {
		logger.Fatal("Failed to migrate database", "err", err)
	}
	pgConn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()
	db := pgstore.NewDBStorageWithConnection(pgConn)

	// The worker talks to the metas API as the service account.
	metasClient := metas.NewClient(metas.NewClientParams{
		BaseURL: util.GetEnv("METAS_API_URL"),
		Timeout: util.GetEnvDuration("METAS_TIMEOUT", metas.DefaultTimeout),
		Retries: int(util.GetEnvNumeric("METAS_RETRIES", 3)),
	}).WithToken(util.GetEnv("METAS_SERVICE_TOKEN"))

	svc := catalog.NewService(metasClient, catalog.Options{
		TTL:   util.GetEnvDuration("CATALOG_TTL", catalog.DefaultTTL),
		Store: db,
	})
	if err := svc.Warm(ctx); err != nil {
		logger.Info("No stored catalog", "err", err)
	}

	exportDeps := queue.ExportDeps{
		Activities:  metasClient,
		Catalog:     svc,
		Exports:     db,
		Objects:     s3Client,
		Bucket:      storage.Bucket(),
		Concurrency: int(util.GetEnvNumeric("SUMMARY_CONCURRENCY", 4)),
	}
	locks := leaselock.New(pgConn)

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, queue.WorkQueues); err != nil {
		logger.Fatal("Failed to setup queues", "err", err)
	}

	// One consumer channel with prefetch=1 delivers a single message at a
	// time across all queues.
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	if err := consumerCh.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	type queuedMessage struct {
		msg       amqp.Delivery
		queueName string
	}

	messageChan := make(chan queuedMessage)

	for _, queueName := range queue.WorkQueues {
		go func(qName string) {
			msgs, err := consumerCh.Consume(
				qName,
				fmt.Sprintf("%s_consumer", qName),
				false, // autoAck
				false, // exclusive
				false, // noLocal
				false, // noWait
				nil,   // args
			)
			if err != nil {
				logger.Fatal("Failed to start consuming", "queue", qName, "err", err)
			}

			for {
				select {
				case <-ctx.Done():
					logger.Info("Stopping consumer", "queue", qName)
					return
				case msg, ok := <-msgs:
					if !ok {
						logger.Info("Message channel closed", "queue", qName)
						return
					}
					messageChan <- queuedMessage{msg: msg, queueName: qName}
				}
			}
		}(queueName)
	}

	logger.Info("Listening for messages", "queues", queue.WorkQueues)

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case qm := <-messageChan:
				startTime := time.Now()
				logger.Info("Received message", "queue", qm.queueName)

				var processingErr error
				switch qm.queueName {
				case queue.CatalogRefreshQueue:
					processingErr = queue.ProcessCatalogRefresh(ctx, svc, locks, ch, string(qm.msg.Body))
				case queue.SummaryExportQueue:
					processingErr = queue.ProcessSummaryExport(ctx, exportDeps, string(qm.msg.Body))
				default:
					processingErr = fmt.Errorf("no handler for queue %s", qm.queueName)
				}

				if processingErr != nil {
					logger.Error("Error processing message", "queue", qm.queueName, "err", processingErr)
					target := queue.HandleProcessingError(consumerCh, qm.msg, qm.msg.Body, qm.msg.Headers, qm.queueName)
					metrics.QueueMessagesTotal.WithLabelValues(qm.queueName, statusForTarget(qm.queueName, target)).Inc()
				} else {
					if err := qm.msg.Ack(false); err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					metrics.QueueMessagesTotal.WithLabelValues(qm.queueName, "ok").Inc()
					logger.Info("Message processed successfully", "queue", qm.queueName)
				}

				logger.Info("Processing time", "queue", qm.queueName, "duration", time.Since(startTime).Round(time.Millisecond))
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}

func statusForTarget(queueName, target string) string {
	switch target {
	case queueName + "_retry":
		return "retry"
	case queueName + "_dlq":
		return "dead_letter"
	default:
		return "requeued"
	}
}

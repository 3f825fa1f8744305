package queue

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/unl-extension/metas/backend/internal/util"
	"github.com/unl-extension/metas/backend/pkg/logger"
)

const (
	CatalogRefreshQueue = "catalog_refresh_queue"
	SummaryExportQueue  = "summary_export_queue"

	TopicCatalogUpdated = "catalog.updated"

	topicExchange = "pubsub_exchange"

	// MaxRetries is how often a failed message is retried before it is moved
	// to the dead letter queue.
	MaxRetries = 10
	retryDelay = 10 * time.Second
)

// WorkQueues lists the queues consumed by the worker.
var WorkQueues = []string{CatalogRefreshQueue, SummaryExportQueue}

// Channel is the subset of *amqp091.Channel used for declaring and publishing.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

func Init() *amqp091.Connection {
	connURL := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		util.GetEnv("RABBITMQ_USER"),
		util.GetEnv("RABBITMQ_PASSWORD"),
		util.GetEnv("RABBITMQ_HOST"),
		util.GetEnvString("RABBITMQ_PORT", "5672"),
	)

	conn, err := amqp091.Dial(connURL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}

	return conn
}

// SetupQueues declares the topic exchange and, for every queue, its _retry
// queue, which dead-letters back after a delay, and its _dlq.
func SetupQueues(ch Channel, queueNames []string) error {
	if err := declareTopicExchange(ch); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	for _, name := range queueNames {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", name, err)
		}

		dlqName := name + "_dlq"
		if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", dlqName, err)
		}

		retryName := name + "_retry"
		_, err := ch.QueueDeclare(retryName, true, false, false, false, amqp091.Table{
			"x-message-ttl":             int32(retryDelay.Milliseconds()),
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": name,
		})
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", retryName, err)
		}
	}

	return nil
}

func declareTopicExchange(ch Channel) error {
	return ch.ExchangeDeclare(
		topicExchange,
		"topic",
		false, // durable
		true,  // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}

func PublishFIFO(ch Channel, queueName string, data []byte) error {
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return err
	}

	return ch.Publish("", q.Name, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	})
}

func PublishTopic(ch Channel, topic string, data []byte) error {
	if err := declareTopicExchange(ch); err != nil {
		return err
	}

	return ch.Publish(topicExchange, topic, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        data,
		Timestamp:   time.Now(),
	})
}

// SubscribeTopic binds a private, auto-deleted queue to topic and returns its
// deliveries, acknowledged on receipt.
func SubscribeTopic(ch *amqp091.Channel, topic string) (<-chan amqp091.Delivery, error) {
	if err := declareTopicExchange(ch); err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare subscriber queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, topic, topicExchange, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", topic, err)
	}

	return ch.Consume(q.Name, "", true, true, false, false, nil)
}

// RetryCount reads the x-retries header set by HandleProcessingError.
func RetryCount(headers amqp091.Table) int {
	switch v := headers["x-retries"].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Acknowledger is the subset of amqp091.Delivery used to settle a message.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// HandleProcessingError moves a failed message to queueName_retry, or to
// queueName_dlq once it has been retried MaxRetries times. It returns the
// queue the message was sent to.
func HandleProcessingError(ch Channel, ack Acknowledger, body []byte, headers amqp091.Table, queueName string) string {
	retries := RetryCount(headers)

	target := queueName + "_retry"
	out := amqp091.Table{}
	for k, v := range headers {
		out[k] = v
	}
	if retries >= MaxRetries {
		target = queueName + "_dlq"
	} else {
		out["x-retries"] = int32(retries + 1)
	}

	err := ch.Publish("", target, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		Headers:      out,
		DeliveryMode: amqp091.Persistent,
	})
	if err != nil {
		logger.Error("[Queue] Failed to republish message", "queue", target, "err", err)
		if nackErr := ack.Nack(false, true); nackErr != nil {
			logger.Error("[Queue] Failed to nack message", "err", nackErr)
		}
		return queueName
	}

	if err := ack.Ack(false); err != nil {
		logger.Error("[Queue] Failed to ack message", "err", err)
	}
	return target
}

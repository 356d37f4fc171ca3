package queue

import (
	"fmt"
	"sync/atomic"

	"github.com/phambaophuc/growth-journal/internal/services/processor"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

type QueueService struct {
	*Runner

	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string

	activeWorkers atomic.Int32
	completed     atomic.Int64
	failed        atomic.Int64
}

func NewQueueService(
	rabbitmqURL string,
	queueName string,
	processor *processor.ImageProcessor,
	profiles *processor.Profiles,
	storage Storage,
	maxFileSize int64,
	logger *zap.Logger,
) (*QueueService, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// one unacked job per consumer; re-encoding is CPU bound
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	return &QueueService{
		Runner:    NewRunner(processor, profiles, storage, maxFileSize, logger),
		conn:      conn,
		channel:   channel,
		queueName: queueName,
	}, nil
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
	return nil
}

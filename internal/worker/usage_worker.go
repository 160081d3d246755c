package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"convobase/internal/model"
	"convobase/internal/platform/logger"
	"convobase/internal/repository"
)

// UsageWorker consumes turn events from the queue and persists token usage
// records for accounting.
type UsageWorker struct {
	conn      *amqp.Connection
	repo      *repository.UsageRepository
	queueName string
	log       *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewUsageWorker(conn *amqp.Connection, repo *repository.UsageRepository, queueName string, log *logger.Logger) *UsageWorker {
	if log == nil {
		log = logger.NewNop()
	}
	return &UsageWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
		log:       log,
	}
}

func (w *UsageWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare usage queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume usage queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(d)
			}
		}
	}()

	return nil
}

func (w *UsageWorker) handle(d amqp.Delivery) {
	var event model.TurnEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.log.Error("decode turn event failed", "error", err)
		_ = d.Nack(false, false)
		return
	}

	record := &model.UsageRecord{
		ConversationID:   event.ConversationID,
		MessageID:        event.AssistantMsgID,
		PromptTokens:     event.PromptTokens,
		CompletionTokens: event.CompletionTokens,
	}
	if err := w.repo.Create(record); err != nil {
		w.log.Error("persist usage record failed", "conversation_id", event.ConversationID, "error", err)
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}

func (w *UsageWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

package kafka

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/logger"
	"Buildrs/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

var errMalformedActivity = errors.New("malformed activity message")

func errIsPermanent(err error) bool {
	return errors.Is(err, errMalformedActivity)
}

// ActivityProducer publishes ledger entries keyed by owner so one owner's entries stay ordered.
type ActivityProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewActivityProducer(producer sarama.SyncProducer, topic string) *ActivityProducer {
	return &ActivityProducer{producer: producer, topic: topic}
}

func (p *ActivityProducer) Publish(ctx context.Context, activity *model.Activity) error {
	value, err := json.Marshal(activity)
	if err != nil {
		return err
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(activity.OwnerID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("publish activity %s: %w", activity.ID, err)
	}
	log.DebugContext(ctx, "activity published", "id", activity.ID, "partition", partition, "offset", offset)
	return nil
}

func (p *ActivityProducer) Close() error {
	return p.producer.Close()
}

// ActivityLedgerHandler appends consumed activities to the ledger.
type ActivityLedgerHandler struct {
	activityRepo repository.ActivityRepo
}

func NewActivityLedgerHandler(activityRepo repository.ActivityRepo) *ActivityLedgerHandler {
	return &ActivityLedgerHandler{activityRepo: activityRepo}
}

func (h *ActivityLedgerHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("activity ledger consumer setup")
	return nil
}

func (h *ActivityLedgerHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("activity ledger consumer cleanup")
	return nil
}

func (h *ActivityLedgerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, h.handle)
}

func (h *ActivityLedgerHandler) handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ctx = context.WithValue(ctx, logger.TraceIDKey, fmt.Sprintf("kafka-activity-%d-%d", msg.Partition, msg.Offset))

	var activity model.Activity
	if err := json.Unmarshal(msg.Value, &activity); err != nil {
		return fmt.Errorf("%w: %v", errMalformedActivity, err)
	}
	if activity.ID == "" || activity.Kind == "" {
		return fmt.Errorf("%w: missing id or kind", errMalformedActivity)
	}
	if err := h.activityRepo.AppendActivity(ctx, &activity); err != nil {
		log.ErrorContext(ctx, "append activity failed", "id", activity.ID, "err", err)
		return err
	}
	return nil
}

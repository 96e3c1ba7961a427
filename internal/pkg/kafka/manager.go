package kafka

import (
	"Buildrs/internal/api/config"
	"Buildrs/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager runs the consumer groups of the process.
type ConsumerManager struct {
	activityConsumer sarama.ConsumerGroup
	activityHandler  sarama.ConsumerGroupHandler
}

func NewConsumerManager(cfg *config.Config, activityRepo repository.ActivityRepo) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	activityConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Activity.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		activityConsumer: activityConsumer,
		activityHandler:  NewActivityLedgerHandler(activityRepo),
	}, nil
}

// NewProducer opens the sync producer used by ActivityProducer.
func NewProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	return sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
}

// Start blocks until ctx is done, then closes the consumer groups.
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		for err := range m.activityConsumer.Errors() {
			log.Error("Activity consumer error", "err", err)
		}
	}()

	go func() {
		topic := cfg.Activity.Topic
		log.Info("Activity consumer started", "topic", topic)
		for {
			if err := m.activityConsumer.Consume(ctx, []string{topic}, m.activityHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.activityConsumer.Close(); err != nil {
		log.Error("Failed to close activity consumer", "err", err)
	}
	return nil
}

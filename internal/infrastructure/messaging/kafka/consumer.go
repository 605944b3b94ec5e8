package kafka

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/config"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/encoding/avro"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

// AuditConsumer reads audit events from the topic and appends them to the
// durable audit log. Undecodable messages are logged and skipped, they would
// otherwise wedge the partition.
type AuditConsumer struct {
	reader *kafkago.Reader
	codec  *avro.Codec
	trail  repository.AuditRepository
	log    logger.Logger
}

func NewAuditConsumer(cfg config.KafkaConfig, codec *avro.Codec, trail repository.AuditRepository, log logger.Logger) *AuditConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.ConsumerGroup,
		Topic:    cfg.AuditTopic,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})

	return &AuditConsumer{
		reader: reader,
		codec:  codec,
		trail:  trail,
		log:    log,
	}
}

func (c *AuditConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := c.codec.Decode(msg.Value)
		if err != nil {
			c.log.Error("skipping undecodable audit message", logger.Error(err))
			continue
		}

		if err := c.trail.Append(ctx, event); err != nil {
			return fmt.Errorf("append audit event %s: %w", event.ID, err)
		}
	}
}

func (c *AuditConsumer) Close() {
	_ = c.reader.Close()
}

package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/audit"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/config"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/encoding/avro"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

// AuditProducer publishes avro-encoded audit events to the audit topic. It
// implements audit.Sink and is normally wrapped in an audit.Dispatcher so
// request handlers never wait on the broker.
type AuditProducer struct {
	client *kgo.Client
	codec  *avro.Codec
	topic  string
	log    logger.Logger
}

func NewAuditProducer(cfg config.KafkaConfig, codec *avro.Codec, log logger.Logger) (*AuditProducer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.AuditTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	log.Info("kafka audit producer ready",
		logger.Any("brokers", cfg.Brokers),
		logger.String("topic", cfg.AuditTopic),
	)

	return &AuditProducer{
		client: client,
		codec:  codec,
		topic:  cfg.AuditTopic,
		log:    log,
	}, nil
}

var _ audit.Sink = (*AuditProducer)(nil)

func (p *AuditProducer) Record(ctx context.Context, e audit.Event) error {
	payload, err := p.codec.Encode(e)
	if err != nil {
		return err
	}

	rec := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(e.ID),
		Value: payload,
	}

	results := p.client.ProduceSync(ctx, rec)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("publish to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *AuditProducer) Close(context.Context) error {
	p.client.Close()
	return nil
}

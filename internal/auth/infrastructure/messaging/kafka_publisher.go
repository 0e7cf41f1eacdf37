package messaging

import (
	"context"

	"github.com/ecomm-platform/ecomm/internal/auth/domain"
	"github.com/ecomm-platform/ecomm/pkg/mq"
)

type kafkaEventPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaEventPublisher 事件类型即 Kafka topic
func NewKafkaEventPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &kafkaEventPublisher{producer: producer}
}

func (p *kafkaEventPublisher) Publish(ctx context.Context, eventType, key string, event any) error {
	return p.producer.SendMessage(ctx, eventType, key, event)
}

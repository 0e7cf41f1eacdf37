package messaging

import (
	"context"

	"github.com/ecomm-platform/ecomm/internal/buyer/domain"
	"github.com/ecomm-platform/ecomm/pkg/mq"
)

type kafkaEventPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaEventPublisher 创建基于 Kafka 的订单事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &kafkaEventPublisher{producer: producer}
}

func (p *kafkaEventPublisher) Publish(ctx context.Context, eventType, key string, event interface{}) error {
	return p.producer.SendMessage(ctx, eventType, key, event)
}

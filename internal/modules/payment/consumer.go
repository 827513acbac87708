package payment

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// Consumer adapts the Kafka message stream onto the payment service. The
// routing key travels in the event-name header set by the publisher.
type Consumer struct {
	service *Service
	log     zerolog.Logger
}

func NewConsumer(service *Service, log zerolog.Logger) *Consumer {
	return &Consumer{service: service, log: log}
}

func (c *Consumer) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	name := eventName(msg)
	switch name {
	case KeyPaymentSucceeded:
		var evt SucceededEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			// malformed payload, retrying will not help
			c.log.Error().Err(err).Str("event", name).Msg("undecodable payment event, dropping")
			return nil
		}
		return c.service.HandleSucceeded(ctx, evt)

	case KeyPaymentFailed:
		var evt FailedEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			c.log.Error().Err(err).Str("event", name).Msg("undecodable payment event, dropping")
			return nil
		}
		return c.service.HandleFailed(ctx, evt)

	default:
		// not ours, acknowledge
		return nil
	}
}

func eventName(msg *sarama.ConsumerMessage) string {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == "event-name" {
			return string(h.Value)
		}
	}
	return ""
}

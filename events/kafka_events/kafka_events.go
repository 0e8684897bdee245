package kafka_events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/hoepeyemi/fusee-sub001/events"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	kafkaMaxAttempts = 16
)

var _ events.Publisher = (*KafkaEvents)(nil)

type KafkaAuthCredentials struct {
	Username string
	Password string
}

func (c *KafkaAuthCredentials) Mechanism() *plain.Mechanism {
	return &plain.Mechanism{
		Username: c.Username,
		Password: c.Password,
	}
}

// KafkaEvents publishes the audit stream to a Kafka topic. The node only
// produces; auditors consume the topic with their own tooling.
type KafkaEvents struct {
	writer *kafka.Writer

	brokerEndpoint, topic string
	timeout               time.Duration
}

func NewKafkaEvents(
	brokerEndpoint,
	topic string,
	tlsConfig *tls.Config,
	producerCreds *plain.Mechanism,
	timeout time.Duration,
) (*KafkaEvents, error) {
	if brokerEndpoint == "" {
		return nil, fmt.Errorf("kafka broker endpoint is not set")
	}

	kafka.DefaultTransport = &kafka.Transport{
		Dial: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		TLS:  tlsConfig,
		SASL: producerCreds,
	}

	ke := &KafkaEvents{
		brokerEndpoint: brokerEndpoint,
		topic:          topic,
		timeout:        timeout,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokerEndpoint),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			MaxAttempts:  kafkaMaxAttempts,
			BatchTimeout: timeout,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
	}

	return ke, nil
}

func (ke *KafkaEvents) Publish(ctx context.Context, evts ...events.Event) error {
	kafkaMessages, err := eventsToKafkaMessages(evts...)
	if err != nil {
		return fmt.Errorf("failed to eventsToKafkaMessages: %w", err)
	}

	if err := ke.writer.WriteMessages(ctx, kafkaMessages...); err != nil {
		return fmt.Errorf("failed to WriteMessages: %w", err)
	}

	return nil
}

func eventsToKafkaMessages(evts ...events.Event) ([]kafka.Message, error) {
	kafkaMessages := make([]kafka.Message, len(evts))
	for i, event := range evts {
		data, err := json.Marshal(event)
		if err != nil {
			return kafkaMessages, fmt.Errorf("failed to marshal an event %v: %v", event, err)
		}
		kafkaMessages[i] = kafka.Message{Key: []byte(event.ID), Value: data}
	}

	return kafkaMessages, nil
}

func (ke *KafkaEvents) Close() error {
	if ke.writer != nil {
		if err := ke.writer.Close(); err != nil {
			return fmt.Errorf("failed to Close writer: %w", err)
		}
	}

	return nil
}

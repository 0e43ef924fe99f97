package messaging

import (
	"encoding/json"
	"wallet-service/src/internal/model"
	kafka "wallet-service/src/pkg/kafka/confluent"
	"wallet-service/src/pkg/log"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

type Producer[T model.Event] struct {
	Producer kafka.Producer
	Topic    string
	Log      log.Log
}

func (p *Producer[T]) GetTopic() *string {
	return &p.Topic
}

func (p *Producer[T]) Send(event T) error {
	// producer is nil when kafka is disabled in configuration
	if p.Producer == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.Log.Error("gateway/messaging/producer", "failed to marshal event", "Send", err.Error())
		return err
	}

	message := &k.Message{
		TopicPartition: k.TopicPartition{Topic: &p.Topic, Partition: k.PartitionAny},
		Key:            []byte(event.GetId()),
		Value:          value,
	}

	err = p.Producer.Publish(message)
	if err != nil {
		p.Log.Error("send-event", "error send message", "send", err.Error())
		return err
	}

	return nil
}

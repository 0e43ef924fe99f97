package kafka

import (
	"fmt"

	"wallet-service/src/pkg/log"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

type producer struct {
	producer *k.Producer
	log      log.Log
}

func NewProducer(config *k.ConfigMap, logger log.Log) (Producer, error) {
	p, err := k.NewProducer(config)
	if err != nil {
		return nil, err
	}

	// drain delivery reports so the internal queue never fills up
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *k.Message:
				if ev.TopicPartition.Error != nil {
					logger.Error("kafka-producer", fmt.Sprintf("delivery failed: %v", ev.TopicPartition.Error), "Events", "")
				}
			case k.Error:
				logger.Error("kafka-producer", ev.Error(), "Events", "")
			}
		}
	}()

	return &producer{producer: p, log: logger}, nil
}

func (p *producer) Publish(message *k.Message) error {
	return p.producer.Produce(message, nil)
}

func (p *producer) PublishChannel(topic string, message []byte) {
	p.producer.ProduceChannel() <- &k.Message{
		TopicPartition: k.TopicPartition{Topic: &topic, Partition: k.PartitionAny},
		Value:          message,
	}
}

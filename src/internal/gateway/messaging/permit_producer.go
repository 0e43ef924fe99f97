package messaging

import (
	"wallet-service/src/internal/model"
	kafka "wallet-service/src/pkg/kafka/confluent"
	"wallet-service/src/pkg/log"
)

type PermitProducer struct {
	IssuedProducer  Producer[*model.PermitEvent]
	RevokedProducer Producer[*model.PermitEvent]
}

func NewPermitProducer(producer kafka.Producer, log log.Log) *PermitProducer {
	return &PermitProducer{
		IssuedProducer: Producer[*model.PermitEvent]{
			Producer: producer,
			Topic:    "permit-issued",
			Log:      log,
		},
		RevokedProducer: Producer[*model.PermitEvent]{
			Producer: producer,
			Topic:    "permit-revoked",
			Log:      log,
		},
	}
}

func (u *PermitProducer) SendIssued(event *model.PermitEvent) error {
	return u.IssuedProducer.Send(event)
}

func (u *PermitProducer) SendRevoked(event *model.PermitEvent) error {
	return u.RevokedProducer.Send(event)
}

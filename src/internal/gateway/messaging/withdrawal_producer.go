package messaging

import (
	"wallet-service/src/internal/model"
	kafka "wallet-service/src/pkg/kafka/confluent"
	"wallet-service/src/pkg/log"
)

type WithdrawalProducer struct {
	ApprovedProducer Producer[*model.WithdrawalEvent]
	RejectedProducer Producer[*model.WithdrawalEvent]
}

func NewWithdrawalProducer(producer kafka.Producer, log log.Log) *WithdrawalProducer {
	return &WithdrawalProducer{
		ApprovedProducer: Producer[*model.WithdrawalEvent]{
			Producer: producer,
			Topic:    "withdrawal-approved",
			Log:      log,
		},
		RejectedProducer: Producer[*model.WithdrawalEvent]{
			Producer: producer,
			Topic:    "withdrawal-rejected",
			Log:      log,
		},
	}
}

func (u *WithdrawalProducer) SendApproved(event *model.WithdrawalEvent) error {
	return u.ApprovedProducer.Send(event)
}

func (u *WithdrawalProducer) SendRejected(event *model.WithdrawalEvent) error {
	return u.RejectedProducer.Send(event)
}

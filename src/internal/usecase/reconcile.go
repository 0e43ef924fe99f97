package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"wallet-service/src/pkg/log"

	"github.com/hibiken/asynq"
)

// TypeLedgerReconcile is the asynq task enqueued when the ledger detects an
// integrity breach: a consumption marker committed without its permit row, or
// an entry settled while its withdrawal request could not be flipped. These
// are never repaired automatically; a wrong guess (deleting a just-issued
// permit, re-opening a settled entry) could break invariants the breach itself
// did not.
const TypeLedgerReconcile = "ledger:reconcile"

type ReconcilePayload struct {
	Kind      string `json:"kind"`
	EntityID  string `json:"entityId"`
	RelatedID string `json:"relatedId"`
	Detail    string `json:"detail"`
}

func NewReconcileTask(payload ReconcilePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeLedgerReconcile, data), nil
}

func enqueueReconcile(client *asynq.Client, logger log.Log, payload ReconcilePayload) {
	if client == nil {
		return
	}
	task, err := NewReconcileTask(payload)
	if err != nil {
		logger.Error("reconcile", fmt.Sprintf("failed to build reconcile task: %v", err), "enqueueReconcile", payload.EntityID)
		return
	}
	if _, err := client.Enqueue(task); err != nil {
		logger.Error("reconcile", fmt.Sprintf("failed to enqueue reconcile task: %v", err), "enqueueReconcile", payload.EntityID)
	}
}

// HandleReconcile surfaces the breach to the operators. It deliberately does
// nothing else.
func (c *LedgerUseCase) HandleReconcile(ctx context.Context, t *asynq.Task) error {
	var payload ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}

	c.Log.Fatal("reconcile",
		fmt.Sprintf("manual reconciliation required: kind=%s entity=%s related=%s detail=%s",
			payload.Kind, payload.EntityID, payload.RelatedID, payload.Detail),
		"HandleReconcile", payload.EntityID)

	return nil
}

package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/outbox"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/dbmetrics"
)

// TxPublisher publishes events into the outbox through the transaction
// carried in the context. Publishing outside a transaction is an error:
// events must commit atomically with the state change they describe.
type TxPublisher struct {
	wmLogger watermill.LoggerAdapter
}

// NewTxPublisher creates an outbox publisher bound to context transactions.
func NewTxPublisher(wmLogger watermill.LoggerAdapter) *TxPublisher {
	return &TxPublisher{wmLogger: wmLogger}
}

// Publish writes the event into the outbox tables of the open transaction.
func (p *TxPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	executor, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return outbox.ErrNoTransaction
	}

	publisher, err := outbox.PublisherForTx(dbmetrics.Tx(executor), p.wmLogger)
	if err != nil {
		return err
	}

	msg, err := NewMessage(payload)
	if err != nil {
		return err
	}

	return publisher.Publish(topic, msg)
}

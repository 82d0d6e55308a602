// Package outbox builds the transactional outbox over Postgres. Events are
// published with a publisher bound to the booking transaction, so an event
// row commits if and only if the booking change commits. The sync worker
// consumes them through the subscriber, which creates the outbox tables on
// startup.
package outbox

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wsql "github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ErrNoTransaction is returned when a publisher is requested outside an
// open transaction.
var ErrNoTransaction = fmt.Errorf("outbox: publisher requires an open transaction")

// PublisherForTx returns a publisher that writes event rows through tx.
func PublisherForTx(tx *sql.Tx, logger watermill.LoggerAdapter) (message.Publisher, error) {
	if tx == nil {
		return nil, ErrNoTransaction
	}

	publisher, err := wsql.NewPublisher(
		tx,
		wsql.PublisherConfig{
			SchemaAdapter: wsql.DefaultPostgreSQLSchema{},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("outbox: create publisher: %w", err)
	}

	return publisher, nil
}

// NewSubscriber returns the consumer side of the outbox, polling the event
// tables on the raw database handle. InitializeSchema makes the subscriber
// create the per-topic tables before the first publish can happen.
func NewSubscriber(db *sql.DB, consumerGroup string, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	subscriber, err := wsql.NewSubscriber(
		db,
		wsql.SubscriberConfig{
			ConsumerGroup:    consumerGroup,
			PollInterval:     time.Second,
			SchemaAdapter:    wsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   wsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("outbox: create subscriber: %w", err)
	}

	return subscriber, nil
}

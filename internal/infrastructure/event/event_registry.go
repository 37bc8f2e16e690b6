package event

import (
	"github.com/incorp/backend/internal/domain/billing"
	"github.com/incorp/backend/internal/domain/onboarding"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Onboarding domain events
	serializer.Register(onboarding.EventTypeSessionCreated, &onboarding.SessionCreatedEvent{})
	serializer.Register(onboarding.EventTypeApplicationSubmitted, &onboarding.ApplicationSubmittedEvent{})

	// Billing domain events
	serializer.Register(billing.EventTypeOrderCreated, &billing.OrderCreatedEvent{})
}

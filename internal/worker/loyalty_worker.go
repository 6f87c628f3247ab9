package worker

// loyalty_worker.go
// Consumes order.status_changed events and recomputes the customer's
// membership tier from lifetime spend. Tier changes used to ride on database
// triggers; this worker is the explicit replacement.

import (
	"context"
	"encoding/json"
	"fmt"

	"summitgear/internal/model"
	"summitgear/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// OrderEventPayload is the job envelope sent to QueueOrderEvents.
type OrderEventPayload struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
}

type LoyaltyWorker struct {
	customerRepo repository.CustomerRepository
}

func NewLoyaltyWorker(customerRepo repository.CustomerRepository) *LoyaltyWorker {
	return &LoyaltyWorker{customerRepo: customerRepo}
}

// Process re-evaluates the tier after completion or return. Other statuses
// don't move total_spent, so they are skipped.
func (w *LoyaltyWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload OrderEventPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("loyalty_worker: invalid payload")
		return nil // malformed, retrying won't help
	}
	if payload.Status != model.OrderCompleted && payload.Status != model.OrderReturned {
		return nil
	}

	customerID, err := uuid.Parse(payload.CustomerID)
	if err != nil {
		log.Error().Str("customer_id", payload.CustomerID).Msg("loyalty_worker: invalid customer_id")
		return nil
	}

	customer, err := w.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("loyalty_worker: load customer %s: %w", payload.CustomerID, err)
	}

	tier, err := w.customerRepo.FindTierForSpent(ctx, customer.TotalSpent)
	if err != nil {
		return fmt.Errorf("loyalty_worker: resolve tier for %s: %w", payload.CustomerID, err)
	}
	if tier.ID == customer.TierID {
		return nil
	}

	if err := w.customerRepo.SetTier(ctx, customerID, tier.ID); err != nil {
		return fmt.Errorf("loyalty_worker: set tier: %w", err)
	}
	log.Info().
		Str("customer_id", payload.CustomerID).
		Str("tier", tier.Name).
		Msg("loyalty_worker: membership tier updated")
	return nil
}

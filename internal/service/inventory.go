package service

import (
	"context"
	"fmt"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/economics"
	"eventdesk/backend/internal/xid"
)

func (s *Service) ListEventInventory(ctx context.Context, eventID string) ([]domain.InventoryLine, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListEventInventory(ctx, eventID)
}

// AddInventoryLine opens the inventory of one product at an event. A product
// appears at most once per event.
func (s *Service) AddInventoryLine(ctx context.Context, eventID string, req domain.InventoryCreateRequest) (domain.InventoryLine, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return domain.InventoryLine{}, err
	}
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return domain.InventoryLine{}, invalid("product_id is required")
	}

	line := domain.InventoryLine{
		ID:            xid.New("inv"),
		EventID:       event.ID,
		ProductID:     productID,
		SalePriceHT:   req.SalePriceHT,
		SalePriceTTC:  req.SalePriceTTC,
		QuantitySold:  req.QuantitySold,
		StartQuantity: req.StartQuantity,
		EndQuantity:   req.EndQuantity,
		StartFull:     req.StartFull,
		StartOpened:   req.StartOpened,
		StartEmpty:    req.StartEmpty,
		EndFull:       req.EndFull,
		EndOpened:     req.EndOpened,
		EndEmpty:      req.EndEmpty,
		CreatedAt:     s.now(),
	}
	if err := validateInventoryLine(line); err != nil {
		return domain.InventoryLine{}, err
	}

	created, err := s.repo.CreateInventoryLine(ctx, line)
	if err != nil {
		return domain.InventoryLine{}, err
	}
	s.logWrite(ctx, "inventory_add", created.ID)
	return *created, nil
}

func (s *Service) UpdateInventoryLine(ctx context.Context, id string, req domain.InventoryUpdateRequest) (domain.InventoryLine, error) {
	existing, err := s.repo.GetInventoryLine(ctx, id)
	if err != nil {
		return domain.InventoryLine{}, err
	}

	updated := *existing
	updated.Product = nil
	if req.SalePriceHT != nil {
		updated.SalePriceHT = *req.SalePriceHT
	}
	if req.SalePriceTTC != nil {
		updated.SalePriceTTC = *req.SalePriceTTC
	}
	setCount(&updated.QuantitySold, req.QuantitySold)
	setCount(&updated.StartQuantity, req.StartQuantity)
	setCount(&updated.EndQuantity, req.EndQuantity)
	setCount(&updated.StartFull, req.StartFull)
	setCount(&updated.StartOpened, req.StartOpened)
	setCount(&updated.StartEmpty, req.StartEmpty)
	setCount(&updated.EndFull, req.EndFull)
	setCount(&updated.EndOpened, req.EndOpened)
	setCount(&updated.EndEmpty, req.EndEmpty)
	if err := validateInventoryLine(updated); err != nil {
		return domain.InventoryLine{}, err
	}

	saved, err := s.repo.UpdateInventoryLine(ctx, updated)
	if err != nil {
		return domain.InventoryLine{}, err
	}
	s.logWrite(ctx, "inventory_update", saved.ID)
	return *saved, nil
}

func (s *Service) DeleteInventoryLine(ctx context.Context, id string) error {
	if err := s.repo.DeleteInventoryLine(ctx, id); err != nil {
		return err
	}
	s.logWrite(ctx, "inventory_delete", id)
	return nil
}

func setCount(dst *domain.Count, src *domain.Count) {
	if src != nil {
		*dst = *src
	}
}

func validateInventoryLine(l domain.InventoryLine) error {
	if err := nonNegative("sale_price_ht", l.SalePriceHT); err != nil {
		return err
	}
	if err := nonNegative("sale_price_ttc", l.SalePriceTTC); err != nil {
		return err
	}
	return nonNegativeCounts(map[string]domain.Count{
		"quantity":                 l.QuantitySold,
		"inventory_start_quantity": l.StartQuantity,
		"inventory_end_quantity":   l.EndQuantity,
		"inventory_start_full":     l.StartFull,
		"inventory_start_opened":   l.StartOpened,
		"inventory_start_empty":    l.StartEmpty,
		"inventory_end_full":       l.EndFull,
		"inventory_end_opened":     l.EndOpened,
		"inventory_end_empty":      l.EndEmpty,
	})
}

// EventEconomics computes hours, labor cost, stock deltas and revenue of an
// event from its current roster and inventory. The result is never stored.
func (s *Service) EventEconomics(ctx context.Context, eventID string) (domain.EventEconomics, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return domain.EventEconomics{}, err
	}
	staff, err := s.repo.ListEventStaff(ctx, eventID)
	if err != nil {
		return domain.EventEconomics{}, fmt.Errorf("list staff of %s: %w", eventID, err)
	}
	inventory, err := s.repo.ListEventInventory(ctx, eventID)
	if err != nil {
		return domain.EventEconomics{}, fmt.Errorf("list inventory of %s: %w", eventID, err)
	}
	return economics.Summarize(*event, staff, inventory, s.rates), nil
}

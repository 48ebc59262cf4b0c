package memory

import (
	"context"
	"slices"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/store"
)

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	slices.SortFunc(products, func(a, b domain.Product) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &product, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" || strings.TrimSpace(product.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.products[product.ID]; exists {
		return nil, store.ErrConflict
	}
	s.products[product.ID] = product
	return &product, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	product.CreatedAt = existing.CreatedAt
	s.products[product.ID] = product
	return &product, nil
}

// DeleteProduct removes the product, its deliveries and every inventory line
// that references it.
func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	for did, d := range s.deliveries {
		if d.ProductID == id {
			delete(s.deliveries, did)
		}
	}
	for lid, l := range s.inventory {
		if l.ProductID == id {
			delete(s.inventory, lid)
		}
	}
	return nil
}

func (s *Store) BackfillStockModes(_ context.Context, classify func(name string) domain.StockMode) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for id, p := range s.products {
		if p.StockMode.Valid() {
			continue
		}
		p.StockMode = classify(p.Name)
		s.products[id] = p
		updated++
	}
	return updated, nil
}

func (s *Store) ListDeliveries(_ context.Context, productID string) ([]domain.ProductDelivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.products[productID]; !ok {
		return nil, store.ErrNotFound
	}
	deliveries := make([]domain.ProductDelivery, 0)
	for _, d := range s.deliveries {
		if d.ProductID == productID {
			deliveries = append(deliveries, d)
		}
	}
	slices.SortFunc(deliveries, func(a, b domain.ProductDelivery) int {
		if c := compareDatesNullsLast(a.DeliveryDate, b.DeliveryDate, true); c != 0 {
			return c
		}
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return deliveries, nil
}

func (s *Store) GetDelivery(_ context.Context, id string) (*domain.ProductDelivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	delivery, ok := s.deliveries[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &delivery, nil
}

func (s *Store) CreateDelivery(_ context.Context, delivery domain.ProductDelivery) (*domain.ProductDelivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if delivery.ID == "" {
		return nil, store.ErrInvalidInput
	}
	if _, ok := s.products[delivery.ProductID]; !ok {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.deliveries[delivery.ID]; exists {
		return nil, store.ErrConflict
	}
	s.deliveries[delivery.ID] = delivery
	return &delivery, nil
}

func (s *Store) UpdateDelivery(_ context.Context, delivery domain.ProductDelivery) (*domain.ProductDelivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.deliveries[delivery.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	delivery.ProductID = existing.ProductID
	delivery.CreatedAt = existing.CreatedAt
	s.deliveries[delivery.ID] = delivery
	return &delivery, nil
}

func (s *Store) DeleteDelivery(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.deliveries[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.deliveries, id)
	return nil
}

func (s *Store) ListEventInventory(_ context.Context, eventID string) ([]domain.InventoryLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.events[eventID]; !ok {
		return nil, store.ErrNotFound
	}
	lines := make([]domain.InventoryLine, 0)
	for _, l := range s.inventory {
		if l.EventID == eventID {
			lines = append(lines, s.joinLine(l))
		}
	}
	slices.SortFunc(lines, func(a, b domain.InventoryLine) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return lines, nil
}

func (s *Store) joinLine(l domain.InventoryLine) domain.InventoryLine {
	l.Product = nil
	if product, ok := s.products[l.ProductID]; ok {
		l.Product = &product
	}
	return l
}

func (s *Store) GetInventoryLine(_ context.Context, id string) (*domain.InventoryLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	line, ok := s.inventory[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	line = s.joinLine(line)
	return &line, nil
}

// CreateInventoryLine rejects a second line for the same product at the same
// event with ErrConflict.
func (s *Store) CreateInventoryLine(_ context.Context, line domain.InventoryLine) (*domain.InventoryLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line.ID == "" {
		return nil, store.ErrInvalidInput
	}
	if _, ok := s.events[line.EventID]; !ok {
		return nil, store.ErrInvalidInput
	}
	if _, ok := s.products[line.ProductID]; !ok {
		return nil, store.ErrInvalidInput
	}
	for _, existing := range s.inventory {
		if existing.ID == line.ID || (existing.EventID == line.EventID && existing.ProductID == line.ProductID) {
			return nil, store.ErrConflict
		}
	}
	line.Product = nil
	s.inventory[line.ID] = line
	created := s.joinLine(line)
	return &created, nil
}

func (s *Store) UpdateInventoryLine(_ context.Context, line domain.InventoryLine) (*domain.InventoryLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.inventory[line.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	line.EventID = existing.EventID
	line.ProductID = existing.ProductID
	line.CreatedAt = existing.CreatedAt
	line.Product = nil
	s.inventory[line.ID] = line
	updated := s.joinLine(line)
	return &updated, nil
}

func (s *Store) DeleteInventoryLine(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inventory[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.inventory, id)
	return nil
}

// ListTasks orders open tasks first, then by ascending priority, then by due
// date with undated tasks last.
func (s *Store) ListTasks(_ context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	slices.SortFunc(tasks, func(a, b domain.Task) int {
		if a.IsDone != b.IsDone {
			if a.IsDone {
				return 1
			}
			return -1
		}
		if a.Priority != b.Priority {
			return a.Priority - b.Priority
		}
		if c := compareDatesNullsLast(a.DueDate, b.DueDate, false); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return tasks, nil
}

func (s *Store) GetTask(_ context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &task, nil
}

func (s *Store) CreateTask(_ context.Context, task domain.Task) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" || strings.TrimSpace(task.Title) == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.tasks[task.ID]; exists {
		return nil, store.ErrConflict
	}
	s.tasks[task.ID] = task
	return &task, nil
}

func (s *Store) UpdateTask(_ context.Context, task domain.Task) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	task.CreatedAt = existing.CreatedAt
	s.tasks[task.ID] = task
	return &task, nil
}

func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

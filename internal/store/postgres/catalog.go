package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/store"
)

const productColumns = `id, name, unit, supplier_name, initial_price_ht, initial_vat_rate, initial_quantity, stock_mode, created_at`

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var qty int
	var mode sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Unit, &p.SupplierName, &p.InitialPriceHT, &p.InitialVATRate, &qty, &mode, &p.CreatedAt); err != nil {
		return domain.Product{}, err
	}
	p.InitialQuantity = domain.Count(qty)
	p.StockMode = domain.StockMode(mode.String)
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || strings.TrimSpace(product.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, unit, supplier_name, initial_price_ht, initial_vat_rate, initial_quantity, stock_mode, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, product.ID, product.Name, product.Unit, product.SupplierName, product.InitialPriceHT,
		product.InitialVATRate, product.InitialQuantity.Int(), nullIfEmpty(string(product.StockMode)), product.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, unit = $3, supplier_name = $4, initial_price_ht = $5, initial_vat_rate = $6,
		    initial_quantity = $7, stock_mode = $8
		WHERE id = $1
	`, product.ID, product.Name, product.Unit, product.SupplierName, product.InitialPriceHT,
		product.InitialVATRate, product.InitialQuantity.Int(), nullIfEmpty(string(product.StockMode)))
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// BackfillStockModes runs in one transaction so a crash leaves either every
// legacy row classified or none.
func (s *Store) BackfillStockModes(ctx context.Context, classify func(name string) domain.StockMode) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT id, name FROM products WHERE stock_mode IS NULL FOR UPDATE`)
	if err != nil {
		return 0, err
	}
	type pending struct{ id, name string }
	todo := make([]pending, 0, 32)
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.name); err != nil {
			_ = rows.Close()
			return 0, err
		}
		todo = append(todo, p)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, err
	}
	_ = rows.Close()

	for _, p := range todo {
		if _, err := tx.ExecContext(ctx, `UPDATE products SET stock_mode = $2 WHERE id = $1`, p.id, string(classify(p.name))); err != nil {
			return 0, fmt.Errorf("backfill %s: %w", p.id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(todo), nil
}

const deliveryColumns = `id, product_id, delivery_date, quantity, purchase_price_ht, vat_rate, supplier_name, invoice_number, notes, created_at`

func scanDelivery(row rowScanner) (domain.ProductDelivery, error) {
	var d domain.ProductDelivery
	var qty int
	if err := row.Scan(&d.ID, &d.ProductID, &d.DeliveryDate, &qty, &d.PurchasePriceHT, &d.VATRate,
		&d.SupplierName, &d.InvoiceNumber, &d.Notes, &d.CreatedAt); err != nil {
		return domain.ProductDelivery{}, err
	}
	d.Quantity = domain.Count(qty)
	d.CreatedAt = d.CreatedAt.UTC()
	return d, nil
}

func (s *Store) ListDeliveries(ctx context.Context, productID string) ([]domain.ProductDelivery, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+deliveryColumns+`
		FROM product_deliveries
		WHERE product_id = $1
		ORDER BY delivery_date DESC NULLS LAST, created_at DESC, id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliveries := make([]domain.ProductDelivery, 0, 16)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (s *Store) GetDelivery(ctx context.Context, id string) (*domain.ProductDelivery, error) {
	d, err := scanDelivery(s.db.QueryRowContext(ctx, `SELECT `+deliveryColumns+` FROM product_deliveries WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *Store) CreateDelivery(ctx context.Context, delivery domain.ProductDelivery) (*domain.ProductDelivery, error) {
	if delivery.ID == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_deliveries (
			id, product_id, delivery_date, quantity, purchase_price_ht, vat_rate,
			supplier_name, invoice_number, notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, delivery.ID, delivery.ProductID, delivery.DeliveryDate, delivery.Quantity.Int(), delivery.PurchasePriceHT,
		delivery.VATRate, delivery.SupplierName, delivery.InvoiceNumber, delivery.Notes, delivery.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetDelivery(ctx, delivery.ID)
}

func (s *Store) UpdateDelivery(ctx context.Context, delivery domain.ProductDelivery) (*domain.ProductDelivery, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE product_deliveries
		SET delivery_date = $2, quantity = $3, purchase_price_ht = $4, vat_rate = $5,
		    supplier_name = $6, invoice_number = $7, notes = $8
		WHERE id = $1
	`, delivery.ID, delivery.DeliveryDate, delivery.Quantity.Int(), delivery.PurchasePriceHT, delivery.VATRate,
		delivery.SupplierName, delivery.InvoiceNumber, delivery.Notes)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetDelivery(ctx, delivery.ID)
}

func (s *Store) DeleteDelivery(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM product_deliveries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

const inventorySelect = `
	SELECT i.id, i.event_id, i.product_id, i.sale_price_ht, i.sale_price_ttc, i.quantity,
	       i.inventory_start_quantity, i.inventory_end_quantity,
	       i.inventory_start_full, i.inventory_start_opened, i.inventory_start_empty,
	       i.inventory_end_full, i.inventory_end_opened, i.inventory_end_empty, i.created_at,
	       p.id, p.name, p.unit, p.supplier_name, p.initial_price_ht, p.initial_vat_rate,
	       p.initial_quantity, p.stock_mode, p.created_at
	FROM event_inventory i
	JOIN products p ON p.id = i.product_id
`

func scanInventoryLine(row rowScanner) (domain.InventoryLine, error) {
	var l domain.InventoryLine
	var counts [9]int
	var p domain.Product
	var productQty int
	var mode sql.NullString
	if err := row.Scan(
		&l.ID, &l.EventID, &l.ProductID, &l.SalePriceHT, &l.SalePriceTTC, &counts[0],
		&counts[1], &counts[2],
		&counts[3], &counts[4], &counts[5],
		&counts[6], &counts[7], &counts[8], &l.CreatedAt,
		&p.ID, &p.Name, &p.Unit, &p.SupplierName, &p.InitialPriceHT, &p.InitialVATRate,
		&productQty, &mode, &p.CreatedAt,
	); err != nil {
		return domain.InventoryLine{}, err
	}
	l.QuantitySold = domain.Count(counts[0])
	l.StartQuantity = domain.Count(counts[1])
	l.EndQuantity = domain.Count(counts[2])
	l.StartFull = domain.Count(counts[3])
	l.StartOpened = domain.Count(counts[4])
	l.StartEmpty = domain.Count(counts[5])
	l.EndFull = domain.Count(counts[6])
	l.EndOpened = domain.Count(counts[7])
	l.EndEmpty = domain.Count(counts[8])
	l.CreatedAt = l.CreatedAt.UTC()
	p.InitialQuantity = domain.Count(productQty)
	p.StockMode = domain.StockMode(mode.String)
	p.CreatedAt = p.CreatedAt.UTC()
	l.Product = &p
	return l, nil
}

func inventoryCounts(l domain.InventoryLine) []any {
	return []any{
		l.QuantitySold.Int(),
		l.StartQuantity.Int(), l.EndQuantity.Int(),
		l.StartFull.Int(), l.StartOpened.Int(), l.StartEmpty.Int(),
		l.EndFull.Int(), l.EndOpened.Int(), l.EndEmpty.Int(),
	}
}

func (s *Store) ListEventInventory(ctx context.Context, eventID string) ([]domain.InventoryLine, error) {
	if err := s.eventExists(ctx, eventID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, inventorySelect+`
		WHERE i.event_id = $1
		ORDER BY i.created_at DESC, i.id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.InventoryLine, 0, 32)
	for rows.Next() {
		l, err := scanInventoryLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) GetInventoryLine(ctx context.Context, id string) (*domain.InventoryLine, error) {
	l, err := scanInventoryLine(s.db.QueryRowContext(ctx, inventorySelect+` WHERE i.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

func (s *Store) CreateInventoryLine(ctx context.Context, line domain.InventoryLine) (*domain.InventoryLine, error) {
	if line.ID == "" {
		return nil, store.ErrInvalidInput
	}
	args := append([]any{line.ID, line.EventID, line.ProductID, line.SalePriceHT, line.SalePriceTTC}, inventoryCounts(line)...)
	args = append(args, line.CreatedAt)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_inventory (
			id, event_id, product_id, sale_price_ht, sale_price_ttc, quantity,
			inventory_start_quantity, inventory_end_quantity,
			inventory_start_full, inventory_start_opened, inventory_start_empty,
			inventory_end_full, inventory_end_opened, inventory_end_empty, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, args...)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetInventoryLine(ctx, line.ID)
}

func (s *Store) UpdateInventoryLine(ctx context.Context, line domain.InventoryLine) (*domain.InventoryLine, error) {
	args := append([]any{line.ID, line.SalePriceHT, line.SalePriceTTC}, inventoryCounts(line)...)
	res, err := s.db.ExecContext(ctx, `
		UPDATE event_inventory
		SET sale_price_ht = $2, sale_price_ttc = $3, quantity = $4,
		    inventory_start_quantity = $5, inventory_end_quantity = $6,
		    inventory_start_full = $7, inventory_start_opened = $8, inventory_start_empty = $9,
		    inventory_end_full = $10, inventory_end_opened = $11, inventory_end_empty = $12
		WHERE id = $1
	`, args...)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetInventoryLine(ctx, line.ID)
}

func (s *Store) DeleteInventoryLine(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM event_inventory WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

const taskColumns = `id, title, description, priority, due_date, is_done, created_at`

func scanTask(row rowScanner) (domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.DueDate, &t.IsDone, &t.CreatedAt); err != nil {
		return domain.Task{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY is_done ASC, priority ASC, due_date ASC NULLS LAST, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0, 32)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	if task.ID == "" || strings.TrimSpace(task.Title) == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, priority, due_date, is_done, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, task.ID, task.Title, task.Description, task.Priority, task.DueDate, task.IsDone, task.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetTask(ctx, task.ID)
}

func (s *Store) UpdateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = $2, description = $3, priority = $4, due_date = $5, is_done = $6
		WHERE id = $1
	`, task.ID, task.Title, task.Description, task.Priority, task.DueDate, task.IsDone)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, task.ID)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

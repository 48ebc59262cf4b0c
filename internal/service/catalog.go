package service

import (
	"context"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/economics"
	"eventdesk/backend/internal/xid"
)

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return cachedList(ctx, s, keyProducts, s.repo.ListProducts)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

// CreateProduct stores a new product. Without an explicit stock mode the
// name decides; after that the mode only changes when set explicitly.
func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	product := domain.Product{
		ID:              xid.New("prd"),
		Name:            strings.TrimSpace(req.Name),
		Unit:            strings.TrimSpace(req.Unit),
		SupplierName:    strings.TrimSpace(req.SupplierName),
		InitialPriceHT:  req.InitialPriceHT,
		InitialVATRate:  req.InitialVATRate,
		InitialQuantity: req.InitialQuantity,
		StockMode:       req.StockMode,
		CreatedAt:       s.now(),
	}
	if product.StockMode == "" {
		product.StockMode = economics.ClassifyName(product.Name)
	}
	if err := validateProduct(product); err != nil {
		return domain.Product{}, err
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	s.invalidate(ctx, keyProducts)
	s.logWrite(ctx, "product_create", created.ID)
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Unit != nil {
		updated.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.SupplierName != nil {
		updated.SupplierName = strings.TrimSpace(*req.SupplierName)
	}
	if req.InitialPriceHT != nil {
		updated.InitialPriceHT = *req.InitialPriceHT
	}
	if req.InitialVATRate != nil {
		updated.InitialVATRate = *req.InitialVATRate
	}
	if req.InitialQuantity != nil {
		updated.InitialQuantity = *req.InitialQuantity
	}
	if req.StockMode != nil {
		updated.StockMode = *req.StockMode
	}
	if !updated.StockMode.Valid() && req.StockMode == nil {
		// rows that predate stock modes
		updated.StockMode = economics.ClassifyName(existing.Name)
	}
	if err := validateProduct(updated); err != nil {
		return domain.Product{}, err
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}
	s.invalidate(ctx, keyProducts)
	s.logWrite(ctx, "product_update", saved.ID)
	return *saved, nil
}

// DeleteProduct removes the product with its deliveries and inventory lines.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyProducts)
	s.logWrite(ctx, "product_delete", id)
	return nil
}

func validateProduct(p domain.Product) error {
	if p.Name == "" {
		return invalid("name is required")
	}
	if !p.StockMode.Valid() {
		return invalid("stock_mode must be %q or %q", domain.StockModeSimple, domain.StockModeKeg)
	}
	if err := nonNegative("initial_price_ht", p.InitialPriceHT); err != nil {
		return err
	}
	if err := vatRate("initial_vat_rate", p.InitialVATRate); err != nil {
		return err
	}
	return nonNegativeCounts(map[string]domain.Count{"initial_quantity": p.InitialQuantity})
}

func (s *Service) ListDeliveries(ctx context.Context, productID string) ([]domain.ProductDelivery, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListDeliveries(ctx, productID)
}

// CreateDelivery records a stock arrival. The delivery date defaults to today.
func (s *Service) CreateDelivery(ctx context.Context, productID string, req domain.DeliveryCreateRequest) (domain.ProductDelivery, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return domain.ProductDelivery{}, err
	}

	delivery := domain.ProductDelivery{
		ID:              xid.New("dlv"),
		ProductID:       product.ID,
		DeliveryDate:    req.DeliveryDate,
		Quantity:        req.Quantity,
		PurchasePriceHT: req.PurchasePriceHT,
		VATRate:         req.VATRate,
		SupplierName:    strings.TrimSpace(req.SupplierName),
		InvoiceNumber:   strings.TrimSpace(req.InvoiceNumber),
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       s.now(),
	}
	if delivery.DeliveryDate.IsZero() {
		delivery.DeliveryDate = domain.DateOf(delivery.CreatedAt)
	}
	if delivery.SupplierName == "" {
		delivery.SupplierName = product.SupplierName
	}
	if err := validateDelivery(delivery); err != nil {
		return domain.ProductDelivery{}, err
	}

	created, err := s.repo.CreateDelivery(ctx, delivery)
	if err != nil {
		return domain.ProductDelivery{}, err
	}
	s.logWrite(ctx, "delivery_create", created.ID)
	return *created, nil
}

func (s *Service) UpdateDelivery(ctx context.Context, id string, req domain.DeliveryUpdateRequest) (domain.ProductDelivery, error) {
	existing, err := s.repo.GetDelivery(ctx, id)
	if err != nil {
		return domain.ProductDelivery{}, err
	}

	updated := *existing
	if req.DeliveryDate != nil && !req.DeliveryDate.IsZero() {
		updated.DeliveryDate = *req.DeliveryDate
	}
	if req.Quantity != nil {
		updated.Quantity = *req.Quantity
	}
	if req.PurchasePriceHT != nil {
		updated.PurchasePriceHT = *req.PurchasePriceHT
	}
	if req.VATRate != nil {
		updated.VATRate = *req.VATRate
	}
	if req.SupplierName != nil {
		updated.SupplierName = strings.TrimSpace(*req.SupplierName)
	}
	if req.InvoiceNumber != nil {
		updated.InvoiceNumber = strings.TrimSpace(*req.InvoiceNumber)
	}
	if req.Notes != nil {
		updated.Notes = strings.TrimSpace(*req.Notes)
	}
	if err := validateDelivery(updated); err != nil {
		return domain.ProductDelivery{}, err
	}

	saved, err := s.repo.UpdateDelivery(ctx, updated)
	if err != nil {
		return domain.ProductDelivery{}, err
	}
	s.logWrite(ctx, "delivery_update", saved.ID)
	return *saved, nil
}

func (s *Service) DeleteDelivery(ctx context.Context, id string) error {
	if err := s.repo.DeleteDelivery(ctx, id); err != nil {
		return err
	}
	s.logWrite(ctx, "delivery_delete", id)
	return nil
}

func validateDelivery(d domain.ProductDelivery) error {
	if d.Quantity <= 0 {
		return invalid("quantity must be positive")
	}
	if err := nonNegative("purchase_price_ht", d.PurchasePriceHT); err != nil {
		return err
	}
	return vatRate("vat_rate", d.VATRate)
}

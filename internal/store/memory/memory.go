package memory

import (
	"context"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/store"
	"eventdesk/backend/internal/xid"
)

type Store struct {
	mu           sync.RWMutex
	companies    map[string]domain.Company
	contacts     map[string]domain.Contact
	interactions map[string]domain.Interaction
	events       map[string]domain.Event
	barmans      map[string]domain.Barman
	staff        map[string]domain.ShiftAssignment
	products     map[string]domain.Product
	deliveries   map[string]domain.ProductDelivery
	inventory    map[string]domain.InventoryLine
	tasks        map[string]domain.Task
	quickLinks   map[string]domain.QuickLink
	expenses     map[string]domain.Expense
	usersByEmail map[string]domain.UserAccount
}

var _ store.Repository = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		companies:    make(map[string]domain.Company),
		contacts:     make(map[string]domain.Contact),
		interactions: make(map[string]domain.Interaction),
		events:       make(map[string]domain.Event),
		barmans:      make(map[string]domain.Barman),
		staff:        make(map[string]domain.ShiftAssignment),
		products:     make(map[string]domain.Product),
		deliveries:   make(map[string]domain.ProductDelivery),
		inventory:    make(map[string]domain.InventoryLine),
		tasks:        make(map[string]domain.Task),
		quickLinks:   make(map[string]domain.QuickLink),
		expenses:     make(map[string]domain.Expense),
		usersByEmail: make(map[string]domain.UserAccount),
	}
}

// NewSeeded returns a store with a demo admin and a small catalog for
// dev/demo mode. Seeded products have no stock mode so that startup exercises
// BackfillStockModes the way a legacy database would.
func NewSeeded() *Store {
	s := New()
	s.usersByEmail = seedUsers()

	now := time.Now().UTC()
	for i, p := range []struct {
		name   string
		unit   string
		price  string
		vat    string
		qty    domain.Count
		vendor string
	}{
		{"Fût Blonde 30L", "fût", "89.00", "20", 6, "Brasserie du Val"},
		{"Fût IPA 20L", "fût", "74.50", "20", 4, "Brasserie du Val"},
		{"Bouteille de vin rouge", "bouteille", "6.20", "20", 48, "Cave Martin"},
		{"Canette Cola 33cl", "canette", "0.45", "5.5", 120, "Distri Boissons"},
		{"Eau plate 50cl", "bouteille", "0.30", "5.5", 200, "Distri Boissons"},
	} {
		id := xid.New("prd")
		s.products[id] = domain.Product{
			ID:              id,
			Name:            p.name,
			Unit:            p.unit,
			SupplierName:    p.vendor,
			InitialPriceHT:  decimal.RequireFromString(p.price),
			InitialVATRate:  decimal.RequireFromString(p.vat),
			InitialQuantity: p.qty,
			CreatedAt:       now.Add(time.Duration(i) * time.Second),
		}
	}
	return s
}

// seedUsers builds the whitelist for dev/demo mode. The admin password is read
// from SEED_ADMIN_PASSWORD; a dev default is used with a warning otherwise.
// Postgres deployments never call this.
func seedUsers() map[string]domain.UserAccount {
	email := envOr("SEED_ADMIN_EMAIL", "admin@eventdesk.local")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin12345"
		zap.L().Warn("memory store using default dev credentials; set SEED_ADMIN_PASSWORD to override",
			zap.String("email", email))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Fatal("failed to hash seed password", zap.Error(err))
	}
	email = normalizeEmail(email)
	return map[string]domain.UserAccount{
		email: {
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
			Active:       true,
			CreatedAt:    time.Now().UTC(),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(user.Email)
	if email == "" || strings.TrimSpace(user.PasswordHash) == "" {
		return store.ErrInvalidInput
	}
	if _, exists := s.usersByEmail[email]; exists {
		return store.ErrConflict
	}
	user.Email = email
	if user.Role == "" {
		user.Role = domain.RoleMember
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByEmail[email] = user
	return nil
}

func (s *Store) GetUser(_ context.Context, email string) (*domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByEmail[normalizeEmail(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByEmail))
	for _, user := range s.usersByEmail {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return strings.Compare(a.Email, b.Email)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, email string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(passwordHash) == "" {
		return store.ErrInvalidInput
	}
	user, ok := s.usersByEmail[email]
	if !ok {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	s.usersByEmail[email] = user
	return nil
}

func (s *Store) SetUserActive(_ context.Context, email string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = normalizeEmail(email)
	user, ok := s.usersByEmail[email]
	if !ok {
		return store.ErrNotFound
	}
	user.Active = active
	s.usersByEmail[email] = user
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newestFirst orders by creation time descending, then by ID for stability.
func newestFirst(aCreated, bCreated time.Time, aID, bID string) int {
	if c := bCreated.Compare(aCreated); c != 0 {
		return c
	}
	return strings.Compare(aID, bID)
}

// compareDatesNullsLast sorts zero dates after every set date, whatever the
// direction of the other comparison.
func compareDatesNullsLast(a, b domain.Date, desc bool) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	if desc {
		return b.Compare(a.Time)
	}
	return a.Compare(b.Time)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

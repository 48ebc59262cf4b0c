package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/economics"
	"eventdesk/backend/internal/store"
)

func TestSeededStoreHasAdminAndLegacyProducts(t *testing.T) {
	t.Setenv("SEED_ADMIN_PASSWORD", "seed-password-1")
	s := NewSeeded()
	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.True(t, users[0].Active)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.Empty(t, p.StockMode, p.Name)
	}
}

func TestBackfillStockModesOnlyTouchesUnsetRows(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.CreateProduct(ctx, domain.Product{ID: "p1", Name: "Fût Blonde 30L", CreatedAt: now})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, domain.Product{ID: "p2", Name: "Bouteille de vin", CreatedAt: now})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, domain.Product{ID: "p3", Name: "Fût décoratif", StockMode: domain.StockModeSimple, CreatedAt: now})
	require.NoError(t, err)

	n, err := s.BackfillStockModes(ctx, economics.ClassifyName)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p1, _ := s.GetProduct(ctx, "p1")
	p2, _ := s.GetProduct(ctx, "p2")
	p3, _ := s.GetProduct(ctx, "p3")
	assert.Equal(t, domain.StockModeKeg, p1.StockMode)
	assert.Equal(t, domain.StockModeSimple, p2.StockMode)
	assert.Equal(t, domain.StockModeSimple, p3.StockMode)

	n, err = s.BackfillStockModes(ctx, economics.ClassifyName)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInventoryLineIsUniquePerEventAndProduct(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedEventAndProduct(t, s)

	_, err := s.CreateInventoryLine(ctx, domain.InventoryLine{ID: "l1", EventID: "e1", ProductID: "p1"})
	require.NoError(t, err)

	_, err = s.CreateInventoryLine(ctx, domain.InventoryLine{ID: "l2", EventID: "e1", ProductID: "p1"})
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = s.CreateInventoryLine(ctx, domain.InventoryLine{ID: "l3", EventID: "missing", ProductID: "p1"})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	lines, err := s.ListEventInventory(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].Product)
	assert.Equal(t, "Fût Blonde 30L", lines[0].Product.Name)
}

func TestDeleteEventCascadesStaffAndInventory(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedEventAndProduct(t, s)

	_, err := s.CreateBarman(ctx, domain.Barman{ID: "b1", FirstName: "Léa", LastName: "Martin"})
	require.NoError(t, err)
	_, err = s.CreateShiftAssignment(ctx, domain.ShiftAssignment{ID: "a1", EventID: "e1", BarmanID: "b1"})
	require.NoError(t, err)
	_, err = s.CreateInventoryLine(ctx, domain.InventoryLine{ID: "l1", EventID: "e1", ProductID: "p1"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteEvent(ctx, "e1"))

	_, err = s.GetShiftAssignment(ctx, "a1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetInventoryLine(ctx, "l1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteEvent(ctx, "e1"), store.ErrNotFound)
}

func TestRescheduleEventMovesEventAndRosterTogether(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedEventAndProduct(t, s)

	_, err := s.CreateBarman(ctx, domain.Barman{ID: "b1", FirstName: "Léa", LastName: "Martin"})
	require.NoError(t, err)
	start := time.Date(2025, time.July, 14, 21, 0, 0, 0, time.UTC)
	_, err = s.CreateShiftAssignment(ctx, domain.ShiftAssignment{ID: "a1", EventID: "e1", BarmanID: "b1", StartAt: &start})
	require.NoError(t, err)

	event, err := s.GetEvent(ctx, "e1")
	require.NoError(t, err)
	shiftByOneDay := func(a domain.ShiftAssignment) domain.ShiftAssignment {
		next := a.StartAt.AddDate(0, 0, 1)
		a.StartAt = &next
		a.BarmanID = "someone-else"
		return a
	}

	event.Date = domain.NewDate(2025, time.July, 15)
	saved, moved, err := s.RescheduleEvent(ctx, *event, shiftByOneDay)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	assert.Equal(t, domain.NewDate(2025, time.July, 15), saved.Date)

	a, err := s.GetShiftAssignment(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 1), *a.StartAt)
	assert.Equal(t, "b1", a.BarmanID)

	broken := *saved
	broken.Date = domain.NewDate(2025, time.August, 1)
	broken.CompanyID = "missing-company"
	_, _, err = s.RescheduleEvent(ctx, broken, shiftByOneDay)
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	unchanged, err := s.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2025, time.July, 15), unchanged.Date)
	a, err = s.GetShiftAssignment(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 1), *a.StartAt)

	_, _, err = s.RescheduleEvent(ctx, domain.Event{ID: "ghost"}, shiftByOneDay)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteContactCascadesInteractionsAndDetachesEvents(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateCompany(ctx, domain.Company{ID: "c1", Name: "Mairie de Lyon", Type: domain.CompanyTypeMairie})
	require.NoError(t, err)
	_, err = s.CreateContact(ctx, domain.Contact{ID: "k1", CompanyID: "c1", FirstName: "Anne", LastName: "Petit"})
	require.NoError(t, err)
	_, err = s.CreateInteraction(ctx, domain.Interaction{ID: "i1", ContactID: "k1", Type: domain.InteractionCall, Date: time.Now().UTC()})
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, domain.Event{ID: "e1", Title: "Vœux du maire", ContactID: "k1", CompanyID: "c1"})
	require.NoError(t, err)

	timeline, err := s.ListCompanyTimeline(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, "Anne", timeline[0].Contact.FirstName)

	require.NoError(t, s.DeleteContact(ctx, "k1"))

	_, err = s.GetInteraction(ctx, "i1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	event, err := s.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, event.ContactID)
	assert.Equal(t, "c1", event.CompanyID)
	require.NotNil(t, event.Company)
}

func TestListContactsFiltersByCompanyAndQuery(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateCompany(ctx, domain.Company{ID: "c1", Name: "Agence Nova", Type: domain.CompanyTypeAgence})
	require.NoError(t, err)
	for _, c := range []domain.Contact{
		{ID: "k1", CompanyID: "c1", FirstName: "Anne", LastName: "Petit", Email: "anne@nova.fr"},
		{ID: "k2", CompanyID: "c1", FirstName: "Marc", LastName: "Durand"},
		{ID: "k3", FirstName: "Julie", LastName: "Petitjean"},
	} {
		_, err := s.CreateContact(ctx, c)
		require.NoError(t, err)
	}

	byCompany, err := s.ListContacts(ctx, domain.ContactFilter{CompanyID: "c1"})
	require.NoError(t, err)
	assert.Len(t, byCompany, 2)

	byQuery, err := s.ListContacts(ctx, domain.ContactFilter{Query: "PETIT"})
	require.NoError(t, err)
	assert.Len(t, byQuery, 2)

	both, err := s.ListContacts(ctx, domain.ContactFilter{CompanyID: "c1", Query: "nova.fr"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "k1", both[0].ID)
}

func TestListTasksOrdersOpenThenPriorityThenDueDate(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, task := range []domain.Task{
		{ID: "done", Title: "done", Priority: 1, IsDone: true},
		{ID: "p2", Title: "p2", Priority: 2, DueDate: domain.NewDate(2025, 1, 1)},
		{ID: "p1-undated", Title: "p1-undated", Priority: 1},
		{ID: "p1-late", Title: "p1-late", Priority: 1, DueDate: domain.NewDate(2025, 3, 1)},
		{ID: "p1-early", Title: "p1-early", Priority: 1, DueDate: domain.NewDate(2025, 2, 1)},
	} {
		_, err := s.CreateTask(ctx, task)
		require.NoError(t, err)
	}

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"p1-early", "p1-late", "p1-undated", "p2", "done"}, ids)
}

func TestUserWhitelist(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, domain.UserAccount{Email: " Staff@Example.com ", PasswordHash: "$2a$hash"}))
	assert.ErrorIs(t, s.CreateUser(ctx, domain.UserAccount{Email: "staff@example.com", PasswordHash: "$2a$x"}), store.ErrConflict)

	user, err := s.GetUser(ctx, "STAFF@example.com")
	require.NoError(t, err)
	assert.Equal(t, "staff@example.com", user.Email)
	assert.Equal(t, domain.RoleMember, user.Role)

	require.NoError(t, s.SetUserActive(ctx, "staff@example.com", false))
	user, err = s.GetUser(ctx, "staff@example.com")
	require.NoError(t, err)
	assert.False(t, user.Active)

	assert.ErrorIs(t, s.UpdateUserPassword(ctx, "nobody@example.com", "$2a$y"), store.ErrNotFound)
}

func TestListExpensesByDateThenNewest(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	june := domain.NewDate(2025, time.June, 21)

	for _, e := range []domain.Expense{
		{ID: "x1", Title: "Péage", Date: domain.NewDate(2025, time.May, 2), CreatedAt: base},
		{ID: "x2", Title: "Glaçons", Date: june, CreatedAt: base},
		{ID: "x3", Title: "Gobelets", Date: june, CreatedAt: base.Add(time.Hour)},
	} {
		_, err := s.CreateExpense(ctx, e)
		require.NoError(t, err)
	}
	_, err := s.CreateExpense(ctx, domain.Expense{ID: "x1", Title: "Doublon"})
	assert.ErrorIs(t, err, store.ErrConflict)

	expenses, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(expenses))
	for _, e := range expenses {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"x3", "x2", "x1"}, ids)
}

func seedEventAndProduct(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	_, err := s.CreateEvent(ctx, domain.Event{ID: "e1", Title: "Festival", Date: domain.NewDate(2025, 7, 14), Status: domain.EventStatusValidated})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, domain.Product{ID: "p1", Name: "Fût Blonde 30L", StockMode: domain.StockModeKeg})
	require.NoError(t, err)
}

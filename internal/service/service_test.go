package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventdesk/backend/internal/cache"
	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/economics"
	"eventdesk/backend/internal/store"
	"eventdesk/backend/internal/store/memory"
)

var fixedNow = time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := New(memory.New(), cache.NoopListCache{}, time.Minute, economics.DefaultRates(), nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func testContext() context.Context {
	return WithActor(context.Background(), domain.Actor{Email: "ops@eventdesk.local", Role: domain.RoleAdmin})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s", want, got)
}

func seedEvent(t *testing.T, svc *Service, date domain.Date) domain.Event {
	t.Helper()
	event, err := svc.CreateEvent(testContext(), domain.EventCreateRequest{
		Title:    "Fête de la musique",
		Location: "Place du Marché",
		Date:     date,
	})
	require.NoError(t, err)
	return event
}

func seedBarman(t *testing.T, svc *Service, first, last string) domain.Barman {
	t.Helper()
	barman, err := svc.CreateBarman(testContext(), domain.BarmanCreateRequest{FirstName: first, LastName: last})
	require.NoError(t, err)
	return barman
}

var midsummer = domain.NewDate(2025, time.June, 21)

func TestCreateProductDefaultsStockModeFromName(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()

	keg, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Fût Blonde 30L"})
	require.NoError(t, err)
	assert.Equal(t, domain.StockModeKeg, keg.StockMode)

	bottle, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Bouteille de rosé"})
	require.NoError(t, err)
	assert.Equal(t, domain.StockModeSimple, bottle.StockMode)

	explicit, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{
		Name:      "Fût décoratif",
		StockMode: domain.StockModeSimple,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StockModeSimple, explicit.StockMode)

	_, err = svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Vrac", StockMode: "bulk"})
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestUpdateProductRenameKeepsStockMode(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()

	product, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Fût IPA 20L"})
	require.NoError(t, err)

	renamed, err := svc.UpdateProduct(ctx, product.ID, domain.ProductUpdateRequest{Name: strPtr("IPA pression 20L")})
	require.NoError(t, err)
	assert.Equal(t, domain.StockModeKeg, renamed.StockMode)

	mode := domain.StockModeSimple
	switched, err := svc.UpdateProduct(ctx, product.ID, domain.ProductUpdateRequest{StockMode: &mode})
	require.NoError(t, err)
	assert.Equal(t, domain.StockModeSimple, switched.StockMode)
}

func TestCreateProductRejectsOutOfRangeVAT(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateProduct(testContext(), domain.ProductCreateRequest{
		Name:           "Canette Cola",
		InitialVATRate: dec("120"),
	})
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestBackfillStockModesClassifiesLegacyProducts(t *testing.T) {
	svc := New(memory.NewSeeded(), nil, 0, economics.Rates{}, nil)
	ctx := context.Background()

	n, err := svc.BackfillStockModes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	for _, p := range products {
		assert.Equal(t, economics.ClassifyName(p.Name), p.StockMode, p.Name)
	}

	n, err = svc.BackfillStockModes(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAddStaffComputesHoursAcrossMidnight(t *testing.T) {
	svc := newTestService(t)
	event := seedEvent(t, svc, midsummer)
	barman := seedBarman(t, svc, "Léa", "Martin")

	shift, err := svc.AddStaff(testContext(), event.ID, domain.StaffCreateRequest{
		BarmanID:  barman.ID,
		StartTime: "22:00",
		EndTime:   "02:00",
	})
	require.NoError(t, err)

	require.True(t, shift.Complete())
	assertDecimal(t, "4.00", shift.HoursWorked)
	assert.True(t, shift.CrossesMidnight)
	assert.Equal(t, 21, shift.StartAt.Day())
	assert.Equal(t, 22, shift.EndAt.Day())
	require.NotNil(t, shift.Barman)
	assert.Equal(t, "Martin", shift.Barman.LastName)
}

func TestAddStaffRequiresDatedEvent(t *testing.T) {
	svc := newTestService(t)
	event := seedEvent(t, svc, domain.Date{})
	barman := seedBarman(t, svc, "Hugo", "Bernard")

	_, err := svc.AddStaff(testContext(), event.ID, domain.StaffCreateRequest{
		BarmanID:  barman.ID,
		StartTime: "18:00",
		EndTime:   "23:00",
	})
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestAddStaffRejectsMalformedClock(t *testing.T) {
	svc := newTestService(t)
	event := seedEvent(t, svc, midsummer)
	barman := seedBarman(t, svc, "Hugo", "Bernard")

	_, err := svc.AddStaff(testContext(), event.ID, domain.StaffCreateRequest{
		BarmanID:  barman.ID,
		StartTime: "6pm",
	})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = svc.AddStaff(testContext(), "evt_missing", domain.StaffCreateRequest{BarmanID: barman.ID})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddStaffWithOnlyStartIsIncomplete(t *testing.T) {
	svc := newTestService(t)
	event := seedEvent(t, svc, midsummer)
	barman := seedBarman(t, svc, "Chloé", "Petit")
	ctx := testContext()

	shift, err := svc.AddStaff(ctx, event.ID, domain.StaffCreateRequest{BarmanID: barman.ID, StartTime: "19:00"})
	require.NoError(t, err)
	assert.False(t, shift.Complete())
	assert.True(t, shift.HoursWorked.IsZero())
	require.NotNil(t, shift.StartAt)
	assert.Equal(t, 19, shift.StartAt.Hour())

	closed, err := svc.UpdateStaff(ctx, shift.ID, domain.StaffUpdateRequest{EndTime: strPtr("01:30")})
	require.NoError(t, err)
	assert.True(t, closed.Complete())
	assertDecimal(t, "6.50", closed.HoursWorked)
	assert.True(t, closed.CrossesMidnight)
}

func TestUpdateStaffClearsEndTime(t *testing.T) {
	svc := newTestService(t)
	event := seedEvent(t, svc, midsummer)
	barman := seedBarman(t, svc, "Chloé", "Petit")
	ctx := testContext()

	shift, err := svc.AddStaff(ctx, event.ID, domain.StaffCreateRequest{
		BarmanID: barman.ID, StartTime: "12:00", EndTime: "16:00",
	})
	require.NoError(t, err)

	reopened, err := svc.UpdateStaff(ctx, shift.ID, domain.StaffUpdateRequest{EndTime: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, reopened.EndAt)
	assert.True(t, reopened.HoursWorked.IsZero())
}

func TestUpdateEventDateMovesRoster(t *testing.T) {
	svc := newTestService(t)
	event := seedEvent(t, svc, midsummer)
	barman := seedBarman(t, svc, "Léa", "Martin")
	ctx := testContext()

	_, err := svc.AddStaff(ctx, event.ID, domain.StaffCreateRequest{
		BarmanID: barman.ID, StartTime: "21:00", EndTime: "03:00",
	})
	require.NoError(t, err)

	moved := domain.NewDate(2025, time.July, 14)
	_, err = svc.UpdateEvent(ctx, event.ID, domain.EventUpdateRequest{Date: &moved})
	require.NoError(t, err)

	staff, err := svc.ListEventStaff(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, time.Date(2025, time.July, 14, 21, 0, 0, 0, time.UTC), *staff[0].StartAt)
	assert.Equal(t, time.Date(2025, time.July, 15, 3, 0, 0, 0, time.UTC), *staff[0].EndAt)
	assertDecimal(t, "6", staff[0].HoursWorked)
}

// rosterRepo only lets event date changes through RescheduleEvent.
type rosterRepo struct {
	*memory.Store
	rescheduleErr error
}

func (r *rosterRepo) UpdateShiftAssignment(context.Context, domain.ShiftAssignment) (*domain.ShiftAssignment, error) {
	return nil, errors.New("shift written outside the reschedule")
}

func (r *rosterRepo) RescheduleEvent(ctx context.Context, event domain.Event, move func(domain.ShiftAssignment) domain.ShiftAssignment) (*domain.Event, int, error) {
	if r.rescheduleErr != nil {
		return nil, 0, r.rescheduleErr
	}
	return r.Store.RescheduleEvent(ctx, event, move)
}

func TestUpdateEventDateMovesRosterInOneWrite(t *testing.T) {
	repo := &rosterRepo{Store: memory.New()}
	svc := New(repo, cache.NoopListCache{}, time.Minute, economics.DefaultRates(), nil)
	svc.now = func() time.Time { return fixedNow }
	ctx := testContext()
	event := seedEvent(t, svc, midsummer)
	barman := seedBarman(t, svc, "Léa", "Martin")
	_, err := svc.AddStaff(ctx, event.ID, domain.StaffCreateRequest{
		BarmanID: barman.ID, StartTime: "22:00", EndTime: "02:00",
	})
	require.NoError(t, err)

	repo.rescheduleErr = errors.New("connection reset")
	moved := domain.NewDate(2025, time.July, 14)
	_, err = svc.UpdateEvent(ctx, event.ID, domain.EventUpdateRequest{Date: &moved})
	require.Error(t, err)

	stored, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, midsummer, stored.Date)
	staff, err := svc.ListEventStaff(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, time.Date(2025, time.June, 21, 22, 0, 0, 0, time.UTC), *staff[0].StartAt)

	repo.rescheduleErr = nil
	updated, err := svc.UpdateEvent(ctx, event.ID, domain.EventUpdateRequest{Date: &moved})
	require.NoError(t, err)
	assert.Equal(t, moved, updated.Date)
	staff, err = svc.ListEventStaff(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 15, 2, 0, 0, 0, time.UTC), *staff[0].EndAt)
	assert.True(t, staff[0].CrossesMidnight)
	assertDecimal(t, "4", staff[0].HoursWorked)

	title := "Fête de la musique (bis)"
	_, err = svc.UpdateEvent(ctx, event.ID, domain.EventUpdateRequest{Title: &title})
	require.NoError(t, err)
}

func TestCreateEventDefaultsAndValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()

	event := seedEvent(t, svc, midsummer)
	assert.Equal(t, domain.EventStatusProspect, event.Status)
	assert.Equal(t, fixedNow, event.CreatedAt)

	_, err := svc.CreateEvent(ctx, domain.EventCreateRequest{Title: "Gala", Status: "archived"})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = svc.CreateEvent(ctx, domain.EventCreateRequest{Title: "Gala", CAHT: decPtr("-1")})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = svc.CreateEvent(ctx, domain.EventCreateRequest{Title: "Gala", CompanyID: "cmp_missing"})
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestEventEconomicsCombinesLaborAndRevenue(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()
	event := seedEvent(t, svc, midsummer)
	lea := seedBarman(t, svc, "Léa", "Martin")
	hugo := seedBarman(t, svc, "Hugo", "Bernard")

	_, err := svc.AddStaff(ctx, event.ID, domain.StaffCreateRequest{BarmanID: lea.ID, StartTime: "09:00", EndTime: "17:30"})
	require.NoError(t, err)
	_, err = svc.AddStaff(ctx, event.ID, domain.StaffCreateRequest{BarmanID: hugo.ID, StartTime: "22:00", EndTime: "02:00"})
	require.NoError(t, err)
	_, err = svc.AddStaff(ctx, event.ID, domain.StaffCreateRequest{BarmanID: hugo.ID, StartTime: "12:00"})
	require.NoError(t, err)

	keg, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Fût Blonde 30L"})
	require.NoError(t, err)
	cola, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Canette Cola 33cl"})
	require.NoError(t, err)

	_, err = svc.AddInventoryLine(ctx, event.ID, domain.InventoryCreateRequest{
		ProductID:    keg.ID,
		SalePriceHT:  dec("150"),
		SalePriceTTC: dec("180"),
		QuantitySold: 2,
		StartFull:    2, StartOpened: 1,
		EndOpened: 1, EndEmpty: 2,
	})
	require.NoError(t, err)
	_, err = svc.AddInventoryLine(ctx, event.ID, domain.InventoryCreateRequest{
		ProductID:     cola.ID,
		SalePriceHT:   dec("2.50"),
		SalePriceTTC:  dec("3.00"),
		QuantitySold:  30,
		StartQuantity: 48,
		EndQuantity:   12,
	})
	require.NoError(t, err)

	econ, err := svc.EventEconomics(ctx, event.ID)
	require.NoError(t, err)

	assertDecimal(t, "12.50", econ.TotalHoursWorked)
	assertDecimal(t, "181.25", econ.TotalLaborCost)
	assert.Equal(t, 1, econ.IncompleteShifts)
	assertDecimal(t, "375", econ.TotalRevenueHT)
	assertDecimal(t, "450", econ.TotalRevenueTTC)

	deltas := map[string]int{}
	for _, l := range econ.Lines {
		deltas[l.ProductName] = l.Delta
	}
	assert.Equal(t, map[string]int{"Fût Blonde 30L": 0, "Canette Cola 33cl": 36}, deltas)
	assert.Len(t, econ.Staff, 3)
}

func TestEventEconomicsUsesConfiguredRate(t *testing.T) {
	svc := New(memory.New(), nil, 0, economics.Rates{HourlyRate: dec("20")}, nil)
	ctx := testContext()
	event := seedEvent(t, svc, midsummer)
	barman := seedBarman(t, svc, "Léa", "Martin")

	_, err := svc.AddStaff(ctx, event.ID, domain.StaffCreateRequest{BarmanID: barman.ID, StartTime: "18:00", EndTime: "21:00"})
	require.NoError(t, err)

	econ, err := svc.EventEconomics(ctx, event.ID)
	require.NoError(t, err)
	assertDecimal(t, "60", econ.TotalLaborCost)
	assertDecimal(t, "20", econ.HourlyRate)

	_, err = svc.EventEconomics(ctx, "evt_missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInventoryLineIsUniquePerEventProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()
	event := seedEvent(t, svc, midsummer)
	product, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Eau plate 50cl"})
	require.NoError(t, err)

	_, err = svc.AddInventoryLine(ctx, event.ID, domain.InventoryCreateRequest{ProductID: product.ID, StartQuantity: 24})
	require.NoError(t, err)

	_, err = svc.AddInventoryLine(ctx, event.ID, domain.InventoryCreateRequest{ProductID: product.ID})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestInventoryRejectsNegativeCounts(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()
	event := seedEvent(t, svc, midsummer)
	product, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Eau plate 50cl"})
	require.NoError(t, err)

	_, err = svc.AddInventoryLine(ctx, event.ID, domain.InventoryCreateRequest{ProductID: product.ID, EndQuantity: -3})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	line, err := svc.AddInventoryLine(ctx, event.ID, domain.InventoryCreateRequest{ProductID: product.ID, StartQuantity: 24})
	require.NoError(t, err)

	sold := domain.Count(-1)
	_, err = svc.UpdateInventoryLine(ctx, line.ID, domain.InventoryUpdateRequest{QuantitySold: &sold})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	huge := domain.Count(domain.MaxCount + 1)
	_, err = svc.UpdateInventoryLine(ctx, line.ID, domain.InventoryUpdateRequest{StartFull: &huge})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	end := domain.Count(6)
	updated, err := svc.UpdateInventoryLine(ctx, line.ID, domain.InventoryUpdateRequest{EndQuantity: &end})
	require.NoError(t, err)
	assert.Equal(t, domain.Count(24), updated.StartQuantity)
	assert.Equal(t, domain.Count(6), updated.EndQuantity)
}

func TestCreateDeliveryDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()
	product, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Fût IPA 20L", SupplierName: "Brasserie du Nord"})
	require.NoError(t, err)

	delivery, err := svc.CreateDelivery(ctx, product.ID, domain.DeliveryCreateRequest{
		Quantity:        6,
		PurchasePriceHT: dec("89.90"),
		VATRate:         dec("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DateOf(fixedNow), delivery.DeliveryDate)
	assert.Equal(t, "Brasserie du Nord", delivery.SupplierName)

	_, err = svc.CreateDelivery(ctx, product.ID, domain.DeliveryCreateRequest{Quantity: 0})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = svc.CreateDelivery(ctx, "prd_missing", domain.DeliveryCreateRequest{Quantity: 1})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCompanyDefaultsAndTimeline(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()

	company, err := svc.CreateCompany(ctx, domain.CompanyCreateRequest{Name: "Mairie de Lille", Type: domain.CompanyTypeMairie})
	require.NoError(t, err)
	other, err := svc.CreateCompany(ctx, domain.CompanyCreateRequest{Name: "Studio Nord"})
	require.NoError(t, err)
	assert.Equal(t, domain.CompanyTypeAutre, other.Type)

	_, err = svc.CreateCompany(ctx, domain.CompanyCreateRequest{Name: "X", Type: "ngo"})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	contact, err := svc.CreateContact(ctx, domain.ContactCreateRequest{
		CompanyID: company.ID, FirstName: "Camille", LastName: "Durand", Email: " Camille@Lille.FR ",
	})
	require.NoError(t, err)
	assert.Equal(t, "camille@lille.fr", contact.Email)

	_, err = svc.CreateInteraction(ctx, domain.InteractionCreateRequest{
		ContactID: contact.ID, Type: domain.InteractionCall, Date: fixedNow.Add(-48 * time.Hour), Content: "Premier appel",
	})
	require.NoError(t, err)
	latest, err := svc.CreateInteraction(ctx, domain.InteractionCreateRequest{
		ContactID: contact.ID, Type: domain.InteractionMeeting, Content: "Visite du site",
	})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, latest.Date)

	timeline, err := svc.CompanyTimeline(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, latest.ID, timeline[0].ID)

	_, err = svc.CreateInteraction(ctx, domain.InteractionCreateRequest{ContactID: contact.ID, Type: "fax"})
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestTaskPriorityDefaultsAndRange(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()

	task, err := svc.CreateTask(ctx, domain.TaskCreateRequest{Title: "Commander les fûts"})
	require.NoError(t, err)
	assert.Equal(t, defaultTaskPriority, task.Priority)

	_, err = svc.CreateTask(ctx, domain.TaskCreateRequest{Title: "Hors bornes", Priority: 9})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	done := true
	updated, err := svc.UpdateTask(ctx, task.ID, domain.TaskUpdateRequest{IsDone: &done})
	require.NoError(t, err)
	assert.True(t, updated.IsDone)
}

func TestQuickLinkURLNormalization(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()

	link, err := svc.CreateQuickLink(ctx, domain.QuickLinkCreateRequest{Name: " Drive ", URL: "drive.google.com/drive/u/0"})
	require.NoError(t, err)
	assert.Equal(t, "Drive", link.Name)
	assert.Equal(t, "https://drive.google.com/drive/u/0", link.URL)
	assert.Empty(t, link.FaviconURL)

	for _, req := range []domain.QuickLinkCreateRequest{
		{Name: "", URL: "https://example.com"},
		{Name: "Vide", URL: "  "},
		{Name: "FTP", URL: "ftp://files.example.com"},
		{Name: "Icône", URL: "https://example.com", FaviconURL: "javascript://alert(1)"},
	} {
		_, err := svc.CreateQuickLink(ctx, req)
		assert.ErrorIs(t, err, store.ErrInvalidInput, req.Name)
	}

	favicon := "https://drive.google.com/favicon.ico"
	updated, err := svc.UpdateQuickLink(ctx, link.ID, domain.QuickLinkUpdateRequest{FaviconURL: &favicon})
	require.NoError(t, err)
	assert.Equal(t, favicon, updated.FaviconURL)
	assert.Equal(t, link.URL, updated.URL)

	require.NoError(t, svc.DeleteQuickLink(ctx, link.ID))
	assert.ErrorIs(t, svc.DeleteQuickLink(ctx, link.ID), store.ErrNotFound)
}

func TestQuickLinksListNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()

	first, err := svc.CreateQuickLink(ctx, domain.QuickLinkCreateRequest{Name: "Drive", URL: "https://drive.google.com"})
	require.NoError(t, err)
	svc.now = func() time.Time { return fixedNow.Add(time.Minute) }
	second, err := svc.CreateQuickLink(ctx, domain.QuickLinkCreateRequest{Name: "Banque", URL: "https://banque.example.fr"})
	require.NoError(t, err)

	links, err := svc.ListQuickLinks(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, second.ID, links[0].ID)
	assert.Equal(t, first.ID, links[1].ID)
}

func TestExpenseDefaultsAndValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := testContext()

	expense, err := svc.CreateExpense(ctx, domain.ExpenseCreateRequest{Title: "Glaçons", AmountTTC: dec("42.90")})
	require.NoError(t, err)
	assert.Equal(t, domain.DateOf(fixedNow), expense.Date)
	assertDecimal(t, "42.90", expense.AmountTTC)

	_, err = svc.CreateExpense(ctx, domain.ExpenseCreateRequest{Title: "Remboursement", AmountTTC: dec("-5")})
	assert.ErrorIs(t, err, store.ErrInvalidInput)
	_, err = svc.CreateExpense(ctx, domain.ExpenseCreateRequest{AmountTTC: dec("5")})
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	older, err := svc.CreateExpense(ctx, domain.ExpenseCreateRequest{Title: "Péage", Date: domain.NewDate(2025, time.May, 2), AmountTTC: dec("7.40")})
	require.NoError(t, err)

	expenses, err := svc.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, expense.ID, expenses[0].ID)
	assert.Equal(t, older.ID, expenses[1].ID)

	amount := dec("8.10")
	updated, err := svc.UpdateExpense(ctx, older.ID, domain.ExpenseUpdateRequest{AmountTTC: &amount})
	require.NoError(t, err)
	assertDecimal(t, "8.10", updated.AmountTTC)
	assert.Equal(t, domain.NewDate(2025, time.May, 2), updated.Date)
}

type mockListCache struct {
	mock.Mock
}

func (m *mockListCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *mockListCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockListCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func TestListProductsFillsCacheOnMiss(t *testing.T) {
	listCache := &mockListCache{}
	svc := New(memory.New(), listCache, 30*time.Second, economics.DefaultRates(), nil)
	ctx := context.Background()

	listCache.On("Get", ctx, keyProducts, mock.Anything).Return(false, nil).Once()
	listCache.On("Set", ctx, keyProducts, mock.Anything, 30*time.Second).Return(nil).Once()

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	listCache.AssertExpectations(t)
}

func TestListProductsServesCacheHit(t *testing.T) {
	listCache := &mockListCache{}
	svc := New(memory.New(), listCache, time.Minute, economics.DefaultRates(), nil)
	ctx := context.Background()

	listCache.On("Get", ctx, keyProducts, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*[]domain.Product)
			*dest = []domain.Product{{ID: "prd_cached", Name: "Fût cache"}}
		}).
		Return(true, nil).Once()

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "prd_cached", products[0].ID)
	listCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWritesInvalidateCachedLists(t *testing.T) {
	listCache := &mockListCache{}
	svc := New(memory.New(), listCache, time.Minute, economics.DefaultRates(), nil)
	ctx := testContext()

	listCache.On("Delete", ctx, []string{keyProducts}).Return(nil).Once()
	_, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Canette Cola 33cl"})
	require.NoError(t, err)

	listCache.On("Delete", ctx, []string{keyTasks}).Return(errors.New("redis down")).Once()
	_, err = svc.CreateTask(ctx, domain.TaskCreateRequest{Title: "Relancer la mairie"})
	require.NoError(t, err, "cache failures must not fail writes")

	listCache.AssertExpectations(t)
}

func TestListEventsWithStatusFilterBypassesCache(t *testing.T) {
	listCache := &mockListCache{}
	svc := New(memory.New(), listCache, time.Minute, economics.DefaultRates(), nil)
	ctx := testContext()

	_, err := svc.ListEvents(ctx, domain.EventFilter{Status: domain.EventStatusValidated})
	require.NoError(t, err)
	listCache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)

	_, err = svc.ListEvents(ctx, domain.EventFilter{Status: "unknown"})
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

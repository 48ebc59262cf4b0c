package store

import (
	"context"
	"errors"

	"eventdesk/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

type Repository interface {
	ListCompanies(ctx context.Context, companyType domain.CompanyType) ([]domain.Company, error)
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	CreateCompany(ctx context.Context, company domain.Company) (*domain.Company, error)
	UpdateCompany(ctx context.Context, company domain.Company) (*domain.Company, error)
	DeleteCompany(ctx context.Context, id string) error
	ListCompanyTimeline(ctx context.Context, companyID string) ([]domain.Interaction, error)

	ListContacts(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, error)
	GetContact(ctx context.Context, id string) (*domain.Contact, error)
	CreateContact(ctx context.Context, contact domain.Contact) (*domain.Contact, error)
	UpdateContact(ctx context.Context, contact domain.Contact) (*domain.Contact, error)
	DeleteContact(ctx context.Context, id string) error

	ListInteractions(ctx context.Context, contactID string) ([]domain.Interaction, error)
	GetInteraction(ctx context.Context, id string) (*domain.Interaction, error)
	CreateInteraction(ctx context.Context, interaction domain.Interaction) (*domain.Interaction, error)
	UpdateInteraction(ctx context.Context, interaction domain.Interaction) (*domain.Interaction, error)
	DeleteInteraction(ctx context.Context, id string) error

	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	CreateEvent(ctx context.Context, event domain.Event) (*domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) (*domain.Event, error)
	// RescheduleEvent saves event and rewrites every shift of its roster with
	// move, atomically. It returns the saved event and how many shifts moved.
	RescheduleEvent(ctx context.Context, event domain.Event, move func(domain.ShiftAssignment) domain.ShiftAssignment) (*domain.Event, int, error)
	DeleteEvent(ctx context.Context, id string) error

	ListBarmans(ctx context.Context) ([]domain.Barman, error)
	GetBarman(ctx context.Context, id string) (*domain.Barman, error)
	CreateBarman(ctx context.Context, barman domain.Barman) (*domain.Barman, error)
	UpdateBarman(ctx context.Context, barman domain.Barman) (*domain.Barman, error)
	DeleteBarman(ctx context.Context, id string) error

	// ListEventStaff returns the roster of an event with each Barman joined.
	ListEventStaff(ctx context.Context, eventID string) ([]domain.ShiftAssignment, error)
	GetShiftAssignment(ctx context.Context, id string) (*domain.ShiftAssignment, error)
	CreateShiftAssignment(ctx context.Context, assignment domain.ShiftAssignment) (*domain.ShiftAssignment, error)
	UpdateShiftAssignment(ctx context.Context, assignment domain.ShiftAssignment) (*domain.ShiftAssignment, error)
	DeleteShiftAssignment(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	// BackfillStockModes sets the mode of every product stored without one,
	// using classify on its name. It returns how many rows changed.
	BackfillStockModes(ctx context.Context, classify func(name string) domain.StockMode) (int, error)

	ListDeliveries(ctx context.Context, productID string) ([]domain.ProductDelivery, error)
	GetDelivery(ctx context.Context, id string) (*domain.ProductDelivery, error)
	CreateDelivery(ctx context.Context, delivery domain.ProductDelivery) (*domain.ProductDelivery, error)
	UpdateDelivery(ctx context.Context, delivery domain.ProductDelivery) (*domain.ProductDelivery, error)
	DeleteDelivery(ctx context.Context, id string) error

	// ListEventInventory returns the inventory lines of an event with each
	// Product joined.
	ListEventInventory(ctx context.Context, eventID string) ([]domain.InventoryLine, error)
	GetInventoryLine(ctx context.Context, id string) (*domain.InventoryLine, error)
	CreateInventoryLine(ctx context.Context, line domain.InventoryLine) (*domain.InventoryLine, error)
	UpdateInventoryLine(ctx context.Context, line domain.InventoryLine) (*domain.InventoryLine, error)
	DeleteInventoryLine(ctx context.Context, id string) error

	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error)
	UpdateTask(ctx context.Context, task domain.Task) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// ListQuickLinks returns the links newest first.
	ListQuickLinks(ctx context.Context) ([]domain.QuickLink, error)
	GetQuickLink(ctx context.Context, id string) (*domain.QuickLink, error)
	CreateQuickLink(ctx context.Context, link domain.QuickLink) (*domain.QuickLink, error)
	UpdateQuickLink(ctx context.Context, link domain.QuickLink) (*domain.QuickLink, error)
	DeleteQuickLink(ctx context.Context, id string) error

	// ListExpenses returns expenses by date, most recent first.
	ListExpenses(ctx context.Context) ([]domain.Expense, error)
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	CreateUser(ctx context.Context, user domain.UserAccount) error
	GetUser(ctx context.Context, email string) (*domain.UserAccount, error)
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, email string, passwordHash string) error
	SetUserActive(ctx context.Context, email string, active bool) error
}

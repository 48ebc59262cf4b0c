package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CompanyType string

const (
	CompanyTypeMairie     CompanyType = "mairie"
	CompanyTypeAgence     CompanyType = "agence"
	CompanyTypeEntreprise CompanyType = "entreprise"
	CompanyTypeAutre      CompanyType = "autre"
)

func (t CompanyType) Valid() bool {
	switch t {
	case CompanyTypeMairie, CompanyTypeAgence, CompanyTypeEntreprise, CompanyTypeAutre:
		return true
	}
	return false
}

type InteractionType string

const (
	InteractionCall    InteractionType = "appel"
	InteractionEmail   InteractionType = "email"
	InteractionSMS     InteractionType = "sms"
	InteractionMeeting InteractionType = "rdv"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionCall, InteractionEmail, InteractionSMS, InteractionMeeting:
		return true
	}
	return false
}

type EventStatus string

const (
	EventStatusProspect     EventStatus = "prospect"
	EventStatusNegotiation  EventStatus = "negociation"
	EventStatusValidated    EventStatus = "validé"
	EventStatusLost         EventStatus = "perdu"
	EventStatusDone         EventStatus = "terminé"
	EventStatusConsolidated EventStatus = "consolidé"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusProspect, EventStatusNegotiation, EventStatusValidated,
		EventStatusLost, EventStatusDone, EventStatusConsolidated:
		return true
	}
	return false
}

// StockMode selects how an event inventory line is counted.
type StockMode string

const (
	StockModeSimple StockMode = "simple"
	StockModeKeg    StockMode = "keg"
)

func (m StockMode) Valid() bool {
	return m == StockModeSimple || m == StockModeKeg
}

type Company struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      CompanyType `json:"type"`
	LogoURL   string      `json:"logo_url,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type CompanyCreateRequest struct {
	Name    string      `json:"name"`
	Type    CompanyType `json:"type"`
	LogoURL string      `json:"logo_url"`
}

type CompanyUpdateRequest struct {
	Name    *string      `json:"name,omitempty"`
	Type    *CompanyType `json:"type,omitempty"`
	LogoURL *string      `json:"logo_url,omitempty"`
}

type Contact struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Company   *Company  `json:"company,omitempty"`
}

type ContactCreateRequest struct {
	CompanyID string `json:"company_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

type ContactUpdateRequest struct {
	CompanyID *string `json:"company_id,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Role      *string `json:"role,omitempty"`
}

// ContactFilter narrows ListContacts. Query matches names and email.
type ContactFilter struct {
	CompanyID string
	Query     string
}

type Interaction struct {
	ID        string          `json:"id"`
	ContactID string          `json:"contact_id"`
	Type      InteractionType `json:"type"`
	Date      time.Time       `json:"date"`
	Content   string          `json:"content,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Contact   *Contact        `json:"contact,omitempty"`
}

type InteractionCreateRequest struct {
	ContactID string          `json:"contact_id"`
	Type      InteractionType `json:"type"`
	Date      time.Time       `json:"date"`
	Content   string          `json:"content"`
}

type InteractionUpdateRequest struct {
	Type    *InteractionType `json:"type,omitempty"`
	Date    *time.Time       `json:"date,omitempty"`
	Content *string          `json:"content,omitempty"`
}

type Event struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location,omitempty"`
	Date        Date             `json:"date"`
	CompanyID   string           `json:"assigned_company_id,omitempty"`
	ContactID   string           `json:"assigned_contact_id,omitempty"`
	Status      EventStatus      `json:"status"`
	CAHT        *decimal.Decimal `json:"ca_ht,omitempty"`
	RHHours     *decimal.Decimal `json:"rh_hours,omitempty"`
	RHCost      *decimal.Decimal `json:"rh_cost,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	Company     *Company         `json:"company,omitempty"`
	Contact     *Contact         `json:"contact,omitempty"`
}

type EventCreateRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	Date        Date             `json:"date"`
	CompanyID   string           `json:"assigned_company_id"`
	ContactID   string           `json:"assigned_contact_id"`
	Status      EventStatus      `json:"status"`
	CAHT        *decimal.Decimal `json:"ca_ht"`
	RHHours     *decimal.Decimal `json:"rh_hours"`
}

type EventUpdateRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Location    *string          `json:"location,omitempty"`
	Date        *Date            `json:"date,omitempty"`
	CompanyID   *string          `json:"assigned_company_id,omitempty"`
	ContactID   *string          `json:"assigned_contact_id,omitempty"`
	Status      *EventStatus     `json:"status,omitempty"`
	CAHT        *decimal.Decimal `json:"ca_ht,omitempty"`
	RHHours     *decimal.Decimal `json:"rh_hours,omitempty"`
}

type EventFilter struct {
	Status EventStatus
}

// Barman is a staff member who can be rostered on events.
type Barman struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	DateOfBirth Date      `json:"date_of_birth"`
	HasLicense  bool      `json:"has_license"`
	CreatedAt   time.Time `json:"created_at"`
}

func (b Barman) FullName() string {
	return b.FirstName + " " + b.LastName
}

type BarmanCreateRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	DateOfBirth Date   `json:"date_of_birth"`
	HasLicense  bool   `json:"has_license"`
}

type BarmanUpdateRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	DateOfBirth *Date   `json:"date_of_birth,omitempty"`
	HasLicense  *bool   `json:"has_license,omitempty"`
}

// ShiftAssignment is one barman's working interval at one event. EndAt has
// the midnight rollover already applied, so it is never before StartAt.
type ShiftAssignment struct {
	ID              string          `json:"id"`
	EventID         string          `json:"event_id"`
	BarmanID        string          `json:"barman_id"`
	StartAt         *time.Time      `json:"start_time"`
	EndAt           *time.Time      `json:"end_time"`
	HoursWorked     decimal.Decimal `json:"hours_worked"`
	CrossesMidnight bool            `json:"crosses_midnight"`
	CreatedAt       time.Time       `json:"created_at"`
	Barman          *Barman         `json:"barman,omitempty"`
}

// Complete reports whether both ends of the shift are known.
func (a ShiftAssignment) Complete() bool {
	return a.StartAt != nil && a.EndAt != nil
}

// StaffCreateRequest carries clock times ("HH:MM") on the event's date.
type StaffCreateRequest struct {
	BarmanID  string `json:"barman_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type StaffUpdateRequest struct {
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit,omitempty"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	InitialPriceHT  decimal.Decimal `json:"initial_price_ht"`
	InitialVATRate  decimal.Decimal `json:"initial_vat_rate"`
	InitialQuantity Count           `json:"initial_quantity"`
	StockMode       StockMode       `json:"stock_mode"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ProductCreateRequest leaves StockMode empty to let the name decide.
type ProductCreateRequest struct {
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	SupplierName    string          `json:"supplier_name"`
	InitialPriceHT  decimal.Decimal `json:"initial_price_ht"`
	InitialVATRate  decimal.Decimal `json:"initial_vat_rate"`
	InitialQuantity Count           `json:"initial_quantity"`
	StockMode       StockMode       `json:"stock_mode"`
}

type ProductUpdateRequest struct {
	Name            *string          `json:"name,omitempty"`
	Unit            *string          `json:"unit,omitempty"`
	SupplierName    *string          `json:"supplier_name,omitempty"`
	InitialPriceHT  *decimal.Decimal `json:"initial_price_ht,omitempty"`
	InitialVATRate  *decimal.Decimal `json:"initial_vat_rate,omitempty"`
	InitialQuantity *Count           `json:"initial_quantity,omitempty"`
	StockMode       *StockMode       `json:"stock_mode,omitempty"`
}

type ProductDelivery struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	DeliveryDate    Date            `json:"delivery_date"`
	Quantity        Count           `json:"quantity"`
	PurchasePriceHT decimal.Decimal `json:"purchase_price_ht"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	InvoiceNumber   string          `json:"invoice_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type DeliveryCreateRequest struct {
	DeliveryDate    Date            `json:"delivery_date"`
	Quantity        Count           `json:"quantity"`
	PurchasePriceHT decimal.Decimal `json:"purchase_price_ht"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	SupplierName    string          `json:"supplier_name"`
	InvoiceNumber   string          `json:"invoice_number"`
	Notes           string          `json:"notes"`
}

type DeliveryUpdateRequest struct {
	DeliveryDate    *Date            `json:"delivery_date,omitempty"`
	Quantity        *Count           `json:"quantity,omitempty"`
	PurchasePriceHT *decimal.Decimal `json:"purchase_price_ht,omitempty"`
	VATRate         *decimal.Decimal `json:"vat_rate,omitempty"`
	SupplierName    *string          `json:"supplier_name,omitempty"`
	InvoiceNumber   *string          `json:"invoice_number,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    int       `json:"priority"`
	DueDate     Date      `json:"due_date"`
	IsDone      bool      `json:"is_done"`
	CreatedAt   time.Time `json:"created_at"`
}

type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	DueDate     Date   `json:"due_date"`
}

type TaskUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	DueDate     *Date   `json:"due_date,omitempty"`
	IsDone      *bool   `json:"is_done,omitempty"`
}

// QuickLink is a bookmark shown on the dashboard.
type QuickLink struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	FaviconURL string    `json:"favicon_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type QuickLinkCreateRequest struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	FaviconURL string `json:"favicon_url"`
}

type QuickLinkUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	URL        *string `json:"url,omitempty"`
	FaviconURL *string `json:"favicon_url,omitempty"`
}

// Expense is an expense report entry (note de frais), amounts tax included.
type Expense struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Date      Date            `json:"date"`
	AmountTTC decimal.Decimal `json:"amount_ttc"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type ExpenseCreateRequest struct {
	Title     string          `json:"title"`
	Date      Date            `json:"date"`
	AmountTTC decimal.Decimal `json:"amount_ttc"`
	Notes     string          `json:"notes"`
}

type ExpenseUpdateRequest struct {
	Title     *string          `json:"title,omitempty"`
	Date      *Date            `json:"date,omitempty"`
	AmountTTC *decimal.Decimal `json:"amount_ttc,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}

package dashboard

import (
	"context"
	"time"
)

// Section identifies one independently show/hide-able dashboard region.
type Section string

// The closed universe of dashboard sections, in canonical display order.
const (
	SectionBalances          Section = "Balances"
	SectionTransactions      Section = "Transactions"
	SectionBills             Section = "Bills"
	SectionScheduledPayments Section = "Scheduled Payments"
	SectionCreditScores      Section = "Credit Scores"
	SectionFinancialAdvisors Section = "Financial Advisors"
)

var sectionUniverse = []Section{
	SectionBalances,
	SectionTransactions,
	SectionBills,
	SectionScheduledPayments,
	SectionCreditScores,
	SectionFinancialAdvisors,
}

// AllSections returns a copy of the section universe in canonical order.
func AllSections() []Section {
	out := make([]Section, len(sectionUniverse))
	copy(out, sectionUniverse)
	return out
}

// Valid reports whether the section belongs to the fixed universe.
func (s Section) Valid() bool {
	for _, known := range sectionUniverse {
		if s == known {
			return true
		}
	}
	return false
}

// UIState bundles the presentation flags owned by the controller. Values are
// process-local and reset on every restart.
type UIState struct {
	ActiveSections []Section `json:"active_sections"`
	DarkMode       bool      `json:"dark_mode"`
	EditMode       bool      `json:"edit_mode"`
}

// Account is a single bank account balance line.
type Account struct {
	AccountNumber string  `json:"accountNumber"`
	AccountType   string  `json:"accountType"`
	Balance       float64 `json:"balance"`
}

// BankAccounts groups the accounts held at one institution. The collection
// carries no date fields and passes through normalization untouched.
type BankAccounts struct {
	BankName string    `json:"bankName"`
	Accounts []Account `json:"accounts"`
}

// RawBill is a bill record as served by the backend, with the due date still
// serialized as a string.
type RawBill struct {
	Description string  `json:"description"`
	AmountDue   float64 `json:"amountDue"`
	IsPaid      bool    `json:"isPaid"`
	DueDate     string  `json:"dueDate"`
}

// Bill is the normalized counterpart of RawBill.
type Bill struct {
	Description string    `json:"description"`
	AmountDue   float64   `json:"amountDue"`
	IsPaid      bool      `json:"isPaid"`
	DueDate     time.Time `json:"dueDate"`
}

// Transaction is a single ledger movement. Transactions are not individually
// date-stamped; they belong to the day bucket that carries them.
type Transaction struct {
	AccountNumber string  `json:"accountNumber"`
	BankName      string  `json:"bankName"`
	Description   string  `json:"description"`
	IsWithdrawal  bool    `json:"isWithdrawal"`
	Amount        float64 `json:"amount"`
}

// RawTransactionDay is a server-side day bucket with a serialized date.
type RawTransactionDay struct {
	Date         string        `json:"date"`
	Transactions []Transaction `json:"transactions"`
}

// TransactionDay is the normalized day bucket.
type TransactionDay struct {
	Date         time.Time     `json:"date"`
	Transactions []Transaction `json:"transactions"`
}

// RawCreditScore is a credit report entry with a serialized report date.
type RawCreditScore struct {
	ReportDate      string `json:"reportDate"`
	CreditScore     int    `json:"creditScore"`
	ReportingAgency string `json:"reportingAgency"`
}

// CreditScore is the normalized credit report entry.
type CreditScore struct {
	ReportDate      time.Time `json:"reportDate"`
	CreditScore     int       `json:"creditScore"`
	ReportingAgency string    `json:"reportingAgency"`
}

// RawAppData is the response body of the backend info endpoint.
type RawAppData struct {
	AccountData     []BankAccounts      `json:"accountData,omitempty"`
	BillData        []RawBill           `json:"billData,omitempty"`
	TransactionData []RawTransactionDay `json:"transactionData,omitempty"`
	CreditScoreData []RawCreditScore    `json:"creditScoreData,omitempty"`
}

// AppData is the normalized aggregate. It is constructed once per successful
// fetch cycle and replaces any previous value atomically.
type AppData struct {
	AccountData     []BankAccounts   `json:"accountData"`
	BillData        []Bill           `json:"billData"`
	TransactionData []TransactionDay `json:"transactionData"`
	CreditScoreData []CreditScore    `json:"creditScoreData"`
}

// BillBucket groups bill line items sharing one due date (calendar day).
type BillBucket struct {
	DueDate time.Time `json:"dueDate"`
	Bills   []Bill    `json:"bills"`
}

// TokenRequest names the audience/scope pair presented to the token issuer.
type TokenRequest struct {
	Audience string
	Scope    string
}

// TokenSource acquires bearer tokens from the authentication collaborator.
// Implementations may block on network calls and must honor the context.
type TokenSource interface {
	Token(ctx context.Context, req TokenRequest) (string, error)
}

// BankInfoClient fetches the raw finance payload from the backend API.
type BankInfoClient interface {
	FetchBankInfo(ctx context.Context, token string) (RawAppData, error)
}

// PayloadValidator checks the raw payload shape before normalization.
type PayloadValidator interface {
	Validate(raw RawAppData) error
}

// PreferenceStore persists per-viewer UI state for the lifetime of the
// process.
type PreferenceStore interface {
	UIState(ctx context.Context, viewer ViewerContext) (UIState, error)
	SaveUIState(ctx context.Context, viewer ViewerContext, state UIState) error
}

// SectionRegistry stores section definitions/providers discoverable via hooks
// or manifests.
type SectionRegistry interface {
	RegisterDefinition(def SectionDefinition) error
	RegisterProvider(code string, provider Provider) error
	Definition(code string) (SectionDefinition, bool)
	Provider(code string) (Provider, bool)
	Definitions() []SectionDefinition
}

// SectionDefinition describes one section of the dashboard.
type SectionDefinition struct {
	Code        string
	Section     Section
	Name        string
	Description string
	Category    string
	Icon        string
	Schema      map[string]any
}

// ViewerContext captures the active user information needed to resolve
// preferences and render the dashboard.
type ViewerContext struct {
	UserID string
	Roles  []string
	Locale string
}

// EventReason classifies dashboard state-change events.
type EventReason string

// Reasons emitted by the controller and session.
const (
	ReasonSectionClosed EventReason = "section_closed"
	ReasonThemeToggled  EventReason = "theme_toggled"
	ReasonEditToggled   EventReason = "edit_toggled"
	ReasonDataReady     EventReason = "data_ready"
	ReasonFetchFailed   EventReason = "fetch_failed"
)

// Event describes a state change that transports might care about.
type Event struct {
	Reason  EventReason `json:"reason"`
	Section Section     `json:"section,omitempty"`
	Cycle   string      `json:"cycle,omitempty"`
	State   *UIState    `json:"state,omitempty"`
}

// RefreshHook notifies transports (REST/WebSocket/SSE) about state changes.
type RefreshHook interface {
	DashboardUpdated(ctx context.Context, event Event) error
}

package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAppData() *AppData {
	return &AppData{
		AccountData: []BankAccounts{
			{
				BankName: "First National",
				Accounts: []Account{
					{AccountNumber: "1001-22", AccountType: "checking", Balance: 2000},
					{AccountNumber: "1001-88", AccountType: "savings", Balance: 3000},
				},
			},
			{
				BankName: "Harborside",
				Accounts: []Account{{AccountNumber: "77-1", AccountType: "checking", Balance: 500}},
			},
		},
		BillData: []Bill{
			{Description: "Electric", AmountDue: 90, IsPaid: false, DueDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)},
			{Description: "Rent", AmountDue: 1450, IsPaid: false, DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
			{Description: "Internet", AmountDue: 65, IsPaid: true, DueDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
			{Description: "Water", AmountDue: 40, IsPaid: false, DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		},
		TransactionData: []TransactionDay{
			{
				Date: time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
				Transactions: []Transaction{
					{Description: "Groceries", IsWithdrawal: true, Amount: 80},
					{Description: "Paycheck", IsWithdrawal: false, Amount: 2100},
				},
			},
		},
		CreditScoreData: []CreditScore{
			{ReportDate: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), CreditScore: 724, ReportingAgency: "Equifax"},
			{ReportDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), CreditScore: 712, ReportingAgency: "Equifax"},
		},
	}
}

func sectionContext(app *AppData, section Section, settings map[string]any) SectionContext {
	return SectionContext{
		Definition: SectionDefinition{Code: SectionCode(section), Section: section},
		App:        app,
		State:      DefaultUIState(),
		Settings:   settings,
	}
}

func TestProvidersReturnLoadingWithoutData(t *testing.T) {
	providers := []Provider{
		NewBalancesProvider(nil),
		NewTransactionsProvider(nil),
		ProviderFunc(fetchBills),
		ProviderFunc(fetchScheduledPayments),
		NewCreditScoresProvider(nil),
	}
	for _, provider := range providers {
		data, err := provider.Fetch(context.Background(), sectionContext(nil, SectionBalances, nil))
		require.NoError(t, err)
		assert.Equal(t, true, data["loading"])
	}
}

func TestBalancesProvider(t *testing.T) {
	provider := NewBalancesProvider(nil)
	data, err := provider.Fetch(context.Background(), sectionContext(sampleAppData(), SectionBalances, nil))
	require.NoError(t, err)

	assert.InDelta(t, 5500.0, data["total"].(float64), 0.001)
	banks := data["banks"].([]map[string]any)
	require.Len(t, banks, 2)
	assert.Equal(t, "First National", banks[0]["bank_name"])
	assert.InDelta(t, 5000.0, banks[0]["subtotal"].(float64), 0.001)
}

func TestTransactionsProvider(t *testing.T) {
	provider := NewTransactionsProvider(nil)
	data, err := provider.Fetch(context.Background(), sectionContext(sampleAppData(), SectionTransactions, nil))
	require.NoError(t, err)

	days := data["days"].([]map[string]any)
	require.Len(t, days, 1)
	assert.Equal(t, "2026-08-27", days[0]["date"])
	assert.InDelta(t, 2020.0, days[0]["net"].(float64), 0.001)
}

func TestFetchBills(t *testing.T) {
	data, err := fetchBills(context.Background(), sectionContext(sampleAppData(), SectionBills, nil))
	require.NoError(t, err)

	timeline := data["timeline"].([]map[string]any)
	require.Len(t, timeline, 3)
	assert.Equal(t, "2026-09-05", timeline[0]["due_date"])
	assert.InDelta(t, 1580.0, data["total_outstanding"].(float64), 0.001)

	unpaidOnly, err := fetchBills(context.Background(), sectionContext(sampleAppData(), SectionBills, map[string]any{"include_paid": false}))
	require.NoError(t, err)
	assert.Len(t, unpaidOnly["timeline"], 2)
}

func TestFetchScheduledPayments(t *testing.T) {
	data, err := fetchScheduledPayments(context.Background(), sectionContext(sampleAppData(), SectionScheduledPayments, nil))
	require.NoError(t, err)

	payments := data["payments"].([]map[string]any)
	require.Len(t, payments, 3)
	assert.Equal(t, "Rent", payments[0]["description"])
	assert.Equal(t, "Water", payments[1]["description"])
	assert.Equal(t, "Electric", payments[2]["description"])

	limited, err := fetchScheduledPayments(context.Background(), sectionContext(sampleAppData(), SectionScheduledPayments, map[string]any{"limit": 1}))
	require.NoError(t, err)
	assert.Len(t, limited["payments"], 1)
}

func TestCreditScoresProvider(t *testing.T) {
	provider := NewCreditScoresProvider(nil)
	data, err := provider.Fetch(context.Background(), sectionContext(sampleAppData(), SectionCreditScores, nil))
	require.NoError(t, err)

	reports := data["reports"].([]map[string]any)
	require.Len(t, reports, 2)
	assert.Equal(t, "2026-06-15", reports[0]["report_date"])

	latest := data["latest"].(map[string]any)
	assert.Equal(t, 724, latest["credit_score"])
}

func TestFinancialAdvisorsProvider(t *testing.T) {
	provider := NewFinancialAdvisorsProvider(StaticAdvisorDirectory{
		Items: []Advisor{
			{Name: "A", Firm: "FirmA"},
			{Name: "B", Firm: "FirmB"},
			{Name: "C", Firm: "FirmC"},
		},
	})
	data, err := provider.Fetch(context.Background(), sectionContext(nil, SectionFinancialAdvisors, map[string]any{"limit": 2}))
	require.NoError(t, err)

	advisors := data["advisors"].([]map[string]any)
	require.Len(t, advisors, 2)
	assert.Equal(t, "A", advisors[0]["name"])
}

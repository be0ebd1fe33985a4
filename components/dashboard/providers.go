package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// loadingData is returned by every provider while no fetch cycle has
// succeeded yet, so widgets can render their loading placeholder.
func loadingData() SectionData {
	return SectionData{"loading": true}
}

type balancesProvider struct {
	chart *ChartRenderer
}

// NewBalancesProvider builds the provider backing the Balances section.
func NewBalancesProvider(chart *ChartRenderer) Provider {
	return &balancesProvider{chart: chart}
}

func (p *balancesProvider) Fetch(_ context.Context, meta SectionContext) (SectionData, error) {
	if meta.App == nil {
		return loadingData(), nil
	}
	banks := make([]map[string]any, 0, len(meta.App.AccountData))
	var total float64
	var slices []ChartPoint
	for _, bank := range meta.App.AccountData {
		var subtotal float64
		accounts := make([]map[string]any, 0, len(bank.Accounts))
		for _, account := range bank.Accounts {
			subtotal += account.Balance
			accounts = append(accounts, map[string]any{
				"account_number": account.AccountNumber,
				"account_type":   account.AccountType,
				"balance":        account.Balance,
			})
		}
		total += subtotal
		banks = append(banks, map[string]any{
			"bank_name": bank.BankName,
			"accounts":  accounts,
			"subtotal":  subtotal,
		})
		slices = append(slices, ChartPoint{Label: bank.BankName, Value: subtotal})
	}
	data := SectionData{
		"banks": banks,
		"total": total,
	}
	if p.chart != nil && stringOr(meta.Settings["chart"], "pie") != "none" && len(slices) > 0 {
		html, err := p.chart.Render(ChartRequest{
			Title:    "Balance Distribution",
			Series:   []ChartSeries{{Name: "Balances", Points: slices}},
			DarkMode: meta.State.DarkMode,
			CacheKey: meta.Definition.Code,
		})
		if err != nil {
			return nil, fmt.Errorf("balances provider: %w", err)
		}
		data["chart_html"] = html
	}
	return data, nil
}

type transactionsProvider struct {
	chart *ChartRenderer
}

// NewTransactionsProvider builds the provider backing the Transactions
// section.
func NewTransactionsProvider(chart *ChartRenderer) Provider {
	return &transactionsProvider{chart: chart}
}

func (p *transactionsProvider) Fetch(_ context.Context, meta SectionContext) (SectionData, error) {
	if meta.App == nil {
		return loadingData(), nil
	}
	days := make([]map[string]any, 0, len(meta.App.TransactionData))
	var flow []ChartPoint
	for _, day := range meta.App.TransactionData {
		rows := make([]map[string]any, 0, len(day.Transactions))
		var net float64
		for _, tx := range day.Transactions {
			amount := tx.Amount
			if tx.IsWithdrawal {
				amount = -amount
			}
			net += amount
			rows = append(rows, map[string]any{
				"description":    tx.Description,
				"bank_name":      tx.BankName,
				"account_number": tx.AccountNumber,
				"is_withdrawal":  tx.IsWithdrawal,
				"amount":         tx.Amount,
			})
		}
		days = append(days, map[string]any{
			"date":         day.Date.Format(time.DateOnly),
			"transactions": rows,
			"net":          net,
		})
		flow = append(flow, ChartPoint{Label: day.Date.Format("Jan 2"), Value: net})
	}
	data := SectionData{"days": days}
	if p.chart != nil && stringOr(meta.Settings["chart"], "none") == "bar" && len(flow) > 0 {
		html, err := p.chart.Render(ChartRequest{
			Title:    "Daily Cash Flow",
			XAxis:    axisLabels(flow),
			Series:   []ChartSeries{{Name: "Net", Points: flow}},
			DarkMode: meta.State.DarkMode,
			CacheKey: meta.Definition.Code,
		})
		if err != nil {
			return nil, fmt.Errorf("transactions provider: %w", err)
		}
		data["chart_html"] = html
	}
	return data, nil
}

func fetchBills(_ context.Context, meta SectionContext) (SectionData, error) {
	if meta.App == nil {
		return loadingData(), nil
	}
	includePaid := boolOr(meta.Settings["include_paid"], true)
	bills := meta.App.BillData
	if !includePaid {
		bills = make([]Bill, 0, len(meta.App.BillData))
		for _, bill := range meta.App.BillData {
			if !bill.IsPaid {
				bills = append(bills, bill)
			}
		}
	}
	buckets := GroupBills(bills)
	timeline := make([]map[string]any, 0, len(buckets))
	var due float64
	for _, bucket := range buckets {
		lines := make([]map[string]any, 0, len(bucket.Bills))
		for _, bill := range bucket.Bills {
			if !bill.IsPaid {
				due += bill.AmountDue
			}
			lines = append(lines, map[string]any{
				"description": bill.Description,
				"amount_due":  bill.AmountDue,
				"is_paid":     bill.IsPaid,
			})
		}
		timeline = append(timeline, map[string]any{
			"due_date": bucket.DueDate.Format(time.DateOnly),
			"bills":    lines,
		})
	}
	return SectionData{
		"timeline":          timeline,
		"total_outstanding": due,
	}, nil
}

func fetchScheduledPayments(_ context.Context, meta SectionContext) (SectionData, error) {
	if meta.App == nil {
		return loadingData(), nil
	}
	unpaid := make([]Bill, 0, len(meta.App.BillData))
	for _, bill := range meta.App.BillData {
		if !bill.IsPaid {
			unpaid = append(unpaid, bill)
		}
	}
	sort.SliceStable(unpaid, func(i, j int) bool {
		return unpaid[i].DueDate.Before(unpaid[j].DueDate)
	})
	limit := intOr(meta.Settings["limit"], 10)
	if limit > 0 && len(unpaid) > limit {
		unpaid = unpaid[:limit]
	}
	payments := make([]map[string]any, 0, len(unpaid))
	for _, bill := range unpaid {
		payments = append(payments, map[string]any{
			"description": bill.Description,
			"amount_due":  bill.AmountDue,
			"due_date":    bill.DueDate.Format(time.DateOnly),
		})
	}
	return SectionData{"payments": payments}, nil
}

type creditScoresProvider struct {
	chart *ChartRenderer
}

// NewCreditScoresProvider builds the provider backing the Credit Scores
// section.
func NewCreditScoresProvider(chart *ChartRenderer) Provider {
	return &creditScoresProvider{chart: chart}
}

func (p *creditScoresProvider) Fetch(_ context.Context, meta SectionContext) (SectionData, error) {
	if meta.App == nil {
		return loadingData(), nil
	}
	reports := make([]CreditScore, len(meta.App.CreditScoreData))
	copy(reports, meta.App.CreditScoreData)
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].ReportDate.Before(reports[j].ReportDate)
	})
	rows := make([]map[string]any, 0, len(reports))
	points := make([]ChartPoint, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, map[string]any{
			"report_date":      report.ReportDate.Format(time.DateOnly),
			"credit_score":     report.CreditScore,
			"reporting_agency": report.ReportingAgency,
		})
		points = append(points, ChartPoint{
			Label: report.ReportDate.Format("Jan 2006"),
			Value: float64(report.CreditScore),
		})
	}
	data := SectionData{"reports": rows}
	if len(reports) > 0 {
		latest := reports[len(reports)-1]
		data["latest"] = map[string]any{
			"credit_score":     latest.CreditScore,
			"reporting_agency": latest.ReportingAgency,
			"report_date":      latest.ReportDate.Format(time.DateOnly),
		}
	}
	if p.chart != nil && stringOr(meta.Settings["chart"], "line") != "none" && len(points) > 0 {
		html, err := p.chart.Render(ChartRequest{
			Title:    "Score History",
			XAxis:    axisLabels(points),
			Series:   []ChartSeries{{Name: "Score", Points: points}},
			DarkMode: meta.State.DarkMode,
			CacheKey: meta.Definition.Code,
		})
		if err != nil {
			return nil, fmt.Errorf("credit scores provider: %w", err)
		}
		data["chart_html"] = html
	}
	return data, nil
}

// Advisor is one entry of the advisor directory.
type Advisor struct {
	Name      string
	Firm      string
	Specialty string
	Phone     string
}

// AdvisorDirectory lists financial advisors available to the viewer.
type AdvisorDirectory interface {
	Advisors(ctx context.Context, viewer ViewerContext, limit int) ([]Advisor, error)
}

// StaticAdvisorDirectory returns fixed entries useful for demos/tests.
type StaticAdvisorDirectory struct {
	Items []Advisor
}

// Advisors returns up to limit entries from the static list.
func (d StaticAdvisorDirectory) Advisors(_ context.Context, _ ViewerContext, limit int) ([]Advisor, error) {
	if limit <= 0 || limit >= len(d.Items) {
		return append([]Advisor{}, d.Items...), nil
	}
	return append([]Advisor{}, d.Items[:limit]...), nil
}

// DefaultAdvisorDirectory provides placeholder entries for the directory
// section.
func DefaultAdvisorDirectory() AdvisorDirectory {
	return StaticAdvisorDirectory{
		Items: []Advisor{
			{Name: "Priya Raman", Firm: "Meridian Wealth", Specialty: "Retirement planning", Phone: "555-0143"},
			{Name: "Owen Castillo", Firm: "Bluebird Capital", Specialty: "Debt management", Phone: "555-0187"},
			{Name: "Hana Suzuki", Firm: "Northgate Advisory", Specialty: "Credit repair", Phone: "555-0112"},
			{Name: "Marcus Bell", Firm: "Bell & Frost", Specialty: "Tax strategy", Phone: "555-0165"},
			{Name: "Ilse Meyer", Firm: "Harbor Financial", Specialty: "Budget coaching", Phone: "555-0129"},
		},
	}
}

// NewFinancialAdvisorsProvider builds the directory-backed provider; a nil
// directory selects the default placeholder list.
func NewFinancialAdvisorsProvider(directory AdvisorDirectory) Provider {
	if directory == nil {
		directory = DefaultAdvisorDirectory()
	}
	return ProviderFunc(func(ctx context.Context, meta SectionContext) (SectionData, error) {
		limit := intOr(meta.Settings["limit"], 5)
		advisors, err := directory.Advisors(ctx, meta.Viewer, limit)
		if err != nil {
			return nil, err
		}
		entries := make([]map[string]any, 0, len(advisors))
		for _, advisor := range advisors {
			entries = append(entries, map[string]any{
				"name":      advisor.Name,
				"firm":      advisor.Firm,
				"specialty": advisor.Specialty,
				"phone":     advisor.Phone,
			})
		}
		return SectionData{"advisors": entries}, nil
	})
}

func axisLabels(points []ChartPoint) []string {
	labels := make([]string, len(points))
	for i, point := range points {
		labels[i] = point.Label
	}
	return labels
}

func stringOr(value any, fallback string) string {
	if v, ok := value.(string); ok && v != "" {
		return v
	}
	return fallback
}

func intOr(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

func boolOr(value any, fallback bool) bool {
	if v, ok := value.(bool); ok {
		return v
	}
	return fallback
}

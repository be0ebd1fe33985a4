package dashboard

import (
	"github.com/ettle/strcase"
)

const sectionCodePrefix = "finance.section."

// SectionCode derives the registry code for a section from its display name.
func SectionCode(section Section) string {
	return sectionCodePrefix + strcase.ToSnake(string(section))
}

var defaultSectionDefinitions = []SectionDefinition{
	{
		Code:        SectionCode(SectionBalances),
		Section:     SectionBalances,
		Name:        "Balances",
		Description: "Account balances per institution",
		Category:    "accounts",
		Icon:        "wallet",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"chart": map[string]any{
					"type":    "string",
					"enum":    []string{"none", "pie"},
					"default": "pie",
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        SectionCode(SectionTransactions),
		Section:     SectionTransactions,
		Name:        "Transactions",
		Description: "Recent ledger movements grouped by day",
		Category:    "activity",
		Icon:        "arrows-right-left",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"chart": map[string]any{
					"type":    "string",
					"enum":    []string{"none", "bar"},
					"default": "none",
				},
				"days": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"maximum": 90,
					"default": 30,
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        SectionCode(SectionBills),
		Section:     SectionBills,
		Name:        "Bills",
		Description: "Bill timeline bucketed by due date",
		Category:    "payments",
		Icon:        "receipt",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"include_paid": map[string]any{
					"type":    "boolean",
					"default": true,
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        SectionCode(SectionScheduledPayments),
		Section:     SectionScheduledPayments,
		Name:        "Scheduled Payments",
		Description: "Unpaid bills ordered by due date",
		Category:    "payments",
		Icon:        "calendar",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"maximum": 25,
					"default": 10,
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        SectionCode(SectionCreditScores),
		Section:     SectionCreditScores,
		Name:        "Credit Scores",
		Description: "Credit report history per agency",
		Category:    "credit",
		Icon:        "chart-line",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"chart": map[string]any{
					"type":    "string",
					"enum":    []string{"none", "line"},
					"default": "line",
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        SectionCode(SectionFinancialAdvisors),
		Section:     SectionFinancialAdvisors,
		Name:        "Financial Advisors",
		Description: "Advisor directory",
		Category:    "directory",
		Icon:        "users",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"maximum": 20,
					"default": 5,
				},
			},
			"additionalProperties": false,
		},
	},
}

var defaultProviders = map[string]Provider{
	SectionCode(SectionBalances):          NewBalancesProvider(NewChartRenderer("pie")),
	SectionCode(SectionTransactions):      NewTransactionsProvider(NewChartRenderer("bar")),
	SectionCode(SectionBills):             ProviderFunc(fetchBills),
	SectionCode(SectionScheduledPayments): ProviderFunc(fetchScheduledPayments),
	SectionCode(SectionCreditScores):      NewCreditScoresProvider(NewChartRenderer("line")),
	SectionCode(SectionFinancialAdvisors): NewFinancialAdvisorsProvider(nil),
}

// DefaultSectionDefinitions returns copies of the built-in definitions.
func DefaultSectionDefinitions() []SectionDefinition {
	out := make([]SectionDefinition, len(defaultSectionDefinitions))
	copy(out, defaultSectionDefinitions)
	return out
}

// SectionByCode resolves a section identifier from its registry code.
func SectionByCode(code string) (Section, bool) {
	for _, section := range sectionUniverse {
		if SectionCode(section) == code {
			return section, true
		}
	}
	return "", false
}

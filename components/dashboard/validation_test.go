package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchemaValidatorSettings(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def, ok := NewRegistry().Definition(SectionCode(SectionTransactions))
	require.True(t, ok)

	assert.NoError(t, validator.Validate(def, map[string]any{"chart": "bar", "days": 14}))
	assert.NoError(t, validator.Validate(def, nil))
	assert.Error(t, validator.Validate(def, map[string]any{"chart": "donut"}))
	assert.Error(t, validator.Validate(def, map[string]any{"days": 500}))
	assert.Error(t, validator.Validate(def, map[string]any{"unexpected": true}))
}

func TestSchemaPayloadValidator(t *testing.T) {
	validator := NewSchemaPayloadValidator()

	require.NoError(t, validator.Validate(RawAppData{
		AccountData: []BankAccounts{
			{BankName: "First National", Accounts: []Account{{AccountNumber: "a-1", Balance: 12}}},
		},
		BillData: []RawBill{
			{Description: "Rent", AmountDue: 1450, DueDate: "2026-09-01"},
		},
		CreditScoreData: []RawCreditScore{
			{ReportDate: "2026-08-15", CreditScore: 724, ReportingAgency: "Equifax"},
		},
	}))

	require.NoError(t, validator.Validate(RawAppData{}))
}

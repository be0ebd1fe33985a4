package dashboard

import (
	"fmt"
	"time"
)

// dateLayouts lists the accepted serializations for temporal fields, most
// specific first. The backend emits RFC 3339; the remaining layouts cover
// zone-less and date-only values seen in older exports.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseRecordDate converts a serialized temporal field into a time.Time.
func ParseRecordDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("dashboard: unparseable date %q", value)
}

// Normalize converts the raw payload into the application data model: each
// element of the three date-bearing collections has its single temporal field
// parsed, every other field is carried over unchanged, and collection order
// and length are preserved exactly. The input is never mutated.
//
// Malformed date strings degrade to the zero time rather than failing the
// whole payload; use NormalizeStrict to reject them instead.
func Normalize(raw RawAppData) AppData {
	app, _ := normalize(raw, false)
	return app
}

// NormalizeStrict behaves like Normalize but returns an error naming the
// first collection element whose temporal field cannot be parsed.
func NormalizeStrict(raw RawAppData) (AppData, error) {
	return normalize(raw, true)
}

func normalize(raw RawAppData, strict bool) (AppData, error) {
	app := AppData{
		AccountData:     append([]BankAccounts(nil), raw.AccountData...),
		BillData:        make([]Bill, len(raw.BillData)),
		TransactionData: make([]TransactionDay, len(raw.TransactionData)),
		CreditScoreData: make([]CreditScore, len(raw.CreditScoreData)),
	}
	for i, bill := range raw.BillData {
		due, err := ParseRecordDate(bill.DueDate)
		if err != nil && strict {
			return AppData{}, fmt.Errorf("dashboard: billData[%d]: %w", i, err)
		}
		app.BillData[i] = Bill{
			Description: bill.Description,
			AmountDue:   bill.AmountDue,
			IsPaid:      bill.IsPaid,
			DueDate:     due,
		}
	}
	for i, day := range raw.TransactionData {
		date, err := ParseRecordDate(day.Date)
		if err != nil && strict {
			return AppData{}, fmt.Errorf("dashboard: transactionData[%d]: %w", i, err)
		}
		app.TransactionData[i] = TransactionDay{
			Date:         date,
			Transactions: append([]Transaction(nil), day.Transactions...),
		}
	}
	for i, report := range raw.CreditScoreData {
		reported, err := ParseRecordDate(report.ReportDate)
		if err != nil && strict {
			return AppData{}, fmt.Errorf("dashboard: creditScoreData[%d]: %w", i, err)
		}
		app.CreditScoreData[i] = CreditScore{
			ReportDate:      reported,
			CreditScore:     report.CreditScore,
			ReportingAgency: report.ReportingAgency,
		}
	}
	return app, nil
}

// GroupBills buckets bill line items by calendar day of their due date,
// preserving first-seen order of days and the relative order of bills within
// each day.
func GroupBills(bills []Bill) []BillBucket {
	if len(bills) == 0 {
		return nil
	}
	index := make(map[string]int, len(bills))
	buckets := make([]BillBucket, 0, len(bills))
	for _, bill := range bills {
		key := bill.DueDate.Format(time.DateOnly)
		at, ok := index[key]
		if !ok {
			at = len(buckets)
			index[key] = at
			buckets = append(buckets, BillBucket{DueDate: bill.DueDate})
		}
		buckets[at].Bills = append(buckets[at].Bills, bill)
	}
	return buckets
}

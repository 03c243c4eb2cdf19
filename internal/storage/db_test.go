package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/NgigiN/smswallet/internal/smsparse"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSuggester map[string]string

func (s stubSuggester) SuggestCategory(_ context.Context, _ string, merchant string) (string, error) {
	return s[merchant], nil
}

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func parseAndSave(t *testing.T, db *Database, p *smsparse.Parser, text, sender string, at time.Time) Record {
	t.Helper()
	rec := FromParsed(p.Parse(context.Background(), text, sender, at.UnixMilli()))
	require.NoError(t, db.SaveRecord(&rec))
	return rec
}

func sequentialIDs() smsparse.Option {
	n := 0
	return smsparse.WithIDFunc(func(ms int64) string {
		n++
		return fmt.Sprintf("%d-%d", ms, n)
	})
}

var day = time.Date(2024, time.November, 25, 9, 0, 0, 0, time.UTC)

func TestRoundTripPreservesParsedRecord(t *testing.T) {
	db := newTestDB(t)
	p := smsparse.New(sequentialIDs())

	want := p.Parse(context.Background(), "Rs.500.00 debited from A/c XX1234 on 24-Nov-24. Avl Bal: Rs.10000.00", "HDFCBK", day.UnixMilli())
	rec := FromParsed(want)
	require.NoError(t, db.SaveRecord(&rec))

	got, err := db.GetRecord(want.ID)
	require.NoError(t, err)
	parsed := got.Parsed()

	assert.Equal(t, want.ID, parsed.ID)
	assert.True(t, want.ReceivedAt.Equal(parsed.ReceivedAt))
	assert.Equal(t, want.Classification, parsed.Classification)
	assert.True(t, want.Transaction.Amount.Equal(parsed.Transaction.Amount))
	assert.Equal(t, want.Transaction.Date, parsed.Transaction.Date)
	assert.Equal(t, want.Transaction.DateSource, parsed.Transaction.DateSource)
	require.NotNil(t, parsed.Balance)
	assert.True(t, want.Balance.Amount.Equal(parsed.Balance.Amount))
	assert.Equal(t, smsparse.BalanceCurrent, parsed.Balance.Kind)
	assert.Equal(t, want.Metadata, parsed.Metadata)
}

func TestSaveRecordRejectsDuplicateID(t *testing.T) {
	db := newTestDB(t)
	p := smsparse.New(smsparse.WithIDFunc(func(int64) string { return "same" }))

	parseAndSave(t, db, p, "Rs.750 debited from A/c XX3456", "HDFCBK", day)
	dup := FromParsed(p.Parse(context.Background(), "Rs.750 debited from A/c XX3456", "HDFCBK", day.UnixMilli()))
	assert.Error(t, db.SaveRecord(&dup))
}

func TestGetRecordNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetRecord("nope")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestListRecordsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	p := smsparse.New(sequentialIDs())

	parseAndSave(t, db, p, "Rs.100 debited from A/c XX1111", "HDFCBK", day)
	parseAndSave(t, db, p, "Rs.200 debited from A/c XX1111", "HDFCBK", day.Add(2*time.Hour))
	parseAndSave(t, db, p, "Rs.300 debited from A/c XX1111", "HDFCBK", day.Add(time.Hour))

	all, err := db.ListRecords(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Rs.200 debited from A/c XX1111", all[0].RawText)
	assert.Equal(t, "Rs.300 debited from A/c XX1111", all[1].RawText)

	limited, err := db.ListRecords(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSetUserCategoryClearsCategoryRequirement(t *testing.T) {
	db := newTestDB(t)
	p := smsparse.New(sequentialIDs())

	bank := parseAndSave(t, db, p, "Rs.500.00 debited from A/c XX1234 on 24-Nov-24", "HDFCBK", day)
	upi := parseAndSave(t, db, p, "Rs.200 debited from A/c XX1234 on 24-Nov-24 via UPI", "SBIINB", day)
	parseAndSave(t, db, p, "Your OTP is 1234. Rs.1 will be charged", "HDFCBK", day)

	pending, err := db.ListNeedingInput(0)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, db.SetUserCategory(bank.RecordID, "rent"))
	got, err := db.GetRecord(bank.RecordID)
	require.NoError(t, err)
	require.NotNil(t, got.UserCategory)
	assert.Equal(t, "rent", *got.UserCategory)
	assert.Empty(t, got.MissingFields)
	assert.False(t, got.RequiresUserInput)

	// Merchant is still missing on the UPI record.
	require.NoError(t, db.SetUserCategory(upi.RecordID, "transfers"))
	got, err = db.GetRecord(upi.RecordID)
	require.NoError(t, err)
	assert.Equal(t, []string{smsparse.FieldMerchant}, got.MissingFields)
	assert.True(t, got.RequiresUserInput)

	pending, err = db.ListNeedingInput(0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, upi.RecordID, pending[0].RecordID)

	assert.ErrorIs(t, db.SetUserCategory("missing", "rent"), ErrRecordNotFound)
}

func TestSetNotes(t *testing.T) {
	db := newTestDB(t)
	rec := parseAndSave(t, db, smsparse.New(sequentialIDs()), "Rs.750 debited from A/c XX3456", "HDFCBK", day)

	require.NoError(t, db.SetNotes(rec.RecordID, "split with Sam"))
	got, err := db.GetRecord(rec.RecordID)
	require.NoError(t, err)
	require.NotNil(t, got.Parsed().Transaction.Notes)
	assert.Equal(t, "split with Sam", *got.Parsed().Transaction.Notes)

	assert.ErrorIs(t, db.SetNotes("missing", "x"), ErrRecordNotFound)
}

func TestCategorySummaryAndLookup(t *testing.T) {
	db := newTestDB(t)
	p := smsparse.New(sequentialIDs(), smsparse.WithSuggester(stubSuggester{"Amazon": "shopping", "Swiggy": "food"}))

	parseAndSave(t, db, p, "Rs 1,500.50 spent on ICICI Card XX9012 at Amazon on 24-Nov-24", "ICICIB", day)
	parseAndSave(t, db, p, "Rs 499.50 spent on ICICI Card XX9012 at Amazon on 25-Nov-24", "ICICIB", day)
	parseAndSave(t, db, p, "Rs 250 spent on HDFC Card XX1111 at Swiggy on 25-Nov-24", "HDFCBK", day)
	rent := parseAndSave(t, db, p, "Rs.20000 debited from A/c XX1234 on 01-Nov-24", "HDFCBK", day)
	parseAndSave(t, db, p, "Rs.50 debited from A/c XX1234", "HDFCBK", day)
	parseAndSave(t, db, p, "Your OTP is 1234. Rs.900 will be charged", "HDFCBK", day)

	require.NoError(t, db.SetUserCategory(rent.RecordID, "rent"))

	summary, err := db.GetCategorySummary()
	require.NoError(t, err)
	assert.Len(t, summary, 4)
	assert.True(t, decimal.RequireFromString("2000").Equal(summary["shopping"]))
	assert.True(t, decimal.RequireFromString("250").Equal(summary["food"]))
	assert.True(t, decimal.RequireFromString("20000").Equal(summary["rent"]))
	assert.True(t, decimal.RequireFromString("50").Equal(summary[Uncategorized]))

	shopping, err := db.GetRecordsByCategory("shopping")
	require.NoError(t, err)
	assert.Len(t, shopping, 2)

	rentRecs, err := db.GetRecordsByCategory("rent")
	require.NoError(t, err)
	require.Len(t, rentRecs, 1)
	assert.Equal(t, rent.RecordID, rentRecs[0].RecordID)

	other, err := db.GetRecordsByCategory(Uncategorized)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestEffectiveCategory(t *testing.T) {
	user, suggested, empty := "rent", "bills", ""

	assert.Equal(t, "rent", Record{UserCategory: &user, SuggestedCategory: &suggested}.EffectiveCategory())
	assert.Equal(t, "bills", Record{UserCategory: &empty, SuggestedCategory: &suggested}.EffectiveCategory())
	assert.Equal(t, Uncategorized, Record{}.EffectiveCategory())
}

package storage

import (
	"time"

	"github.com/NgigiN/smswallet/internal/smsparse"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Uncategorized is the effective category of a record nobody has
// categorized and no rule matched.
const Uncategorized = "uncategorized"

// Record is a stored parsed SMS transaction.
type Record struct {
	gorm.Model
	RecordID   string `gorm:"uniqueIndex"`
	RawText    string
	Sender     string
	ReceivedAt time.Time `gorm:"index"`

	MessageCategory string
	Provider        string
	AccountSuffix   *string
	UserCategory    *string

	Type         string
	Amount       decimal.Decimal `gorm:"type:text"`
	AmountParsed bool
	Currency     string
	Merchant     *string
	Date         string
	Time         *string
	DateSource   string
	Notes        *string

	BalanceAmount decimal.NullDecimal `gorm:"type:text"`
	BalanceKind   *string

	ParseSuccess      bool
	Confidence        float64
	NeedsReview       bool
	MissingFields     []string `gorm:"serializer:json"`
	SuggestedCategory *string
	RequiresUserInput bool `gorm:"index"`
	IsFinancial       bool
}

func FromParsed(p smsparse.ParsedRecord) Record {
	r := Record{
		RecordID:          p.ID,
		RawText:           p.RawText,
		Sender:            p.Sender,
		ReceivedAt:        p.ReceivedAt,
		MessageCategory:   string(p.Classification.MessageCategory),
		Provider:          p.Classification.Provider,
		AccountSuffix:     p.Classification.AccountSuffix,
		UserCategory:      p.Classification.UserCategory,
		Type:              string(p.Transaction.Type),
		Amount:            p.Transaction.Amount,
		AmountParsed:      p.Transaction.AmountParsed,
		Currency:          p.Transaction.Currency,
		Merchant:          p.Transaction.Merchant,
		Date:              p.Transaction.Date,
		Time:              p.Transaction.Time,
		DateSource:        string(p.Transaction.DateSource),
		Notes:             p.Transaction.Notes,
		ParseSuccess:      p.Metadata.ParseSuccess,
		Confidence:        p.Metadata.Confidence,
		NeedsReview:       p.Metadata.NeedsReview,
		MissingFields:     p.Metadata.MissingFields,
		SuggestedCategory: p.Metadata.SuggestedCategory,
		RequiresUserInput: p.Metadata.RequiresUserInput,
		IsFinancial:       p.Metadata.IsFinancial,
	}
	if p.Balance != nil {
		kind := string(p.Balance.Kind)
		r.BalanceAmount = decimal.NewNullDecimal(p.Balance.Amount)
		r.BalanceKind = &kind
	}
	return r
}

// Parsed converts the row back into the engine's record shape, including
// any user edits made since it was stored.
func (r Record) Parsed() smsparse.ParsedRecord {
	p := smsparse.ParsedRecord{
		ID:         r.RecordID,
		RawText:    r.RawText,
		Sender:     r.Sender,
		ReceivedAt: r.ReceivedAt,
		Classification: smsparse.Classification{
			MessageCategory: smsparse.MessageCategory(r.MessageCategory),
			Provider:        r.Provider,
			AccountSuffix:   r.AccountSuffix,
			UserCategory:    r.UserCategory,
		},
		Transaction: smsparse.Transaction{
			Type:         smsparse.TransactionType(r.Type),
			Amount:       r.Amount,
			AmountParsed: r.AmountParsed,
			Currency:     r.Currency,
			Merchant:     r.Merchant,
			Date:         r.Date,
			Time:         r.Time,
			DateSource:   smsparse.DateSource(r.DateSource),
			Notes:        r.Notes,
		},
		Metadata: smsparse.Metadata{
			ParseSuccess:      r.ParseSuccess,
			Confidence:        r.Confidence,
			NeedsReview:       r.NeedsReview,
			MissingFields:     r.MissingFields,
			SuggestedCategory: r.SuggestedCategory,
			RequiresUserInput: r.RequiresUserInput,
			IsFinancial:       r.IsFinancial,
		},
	}
	if p.Metadata.MissingFields == nil {
		p.Metadata.MissingFields = []string{}
	}
	if r.BalanceAmount.Valid && r.BalanceKind != nil {
		p.Balance = &smsparse.Balance{
			Amount: r.BalanceAmount.Decimal,
			Kind:   smsparse.BalanceKind(*r.BalanceKind),
		}
	}
	return p
}

// EffectiveCategory prefers the user's choice over the suggestion.
func (r Record) EffectiveCategory() string {
	switch {
	case r.UserCategory != nil && *r.UserCategory != "":
		return *r.UserCategory
	case r.SuggestedCategory != nil && *r.SuggestedCategory != "":
		return *r.SuggestedCategory
	default:
		return Uncategorized
	}
}

// ApplyUserCategory sets the user's category and drops "category" from the
// missing fields. A record still missing its merchant keeps requiring input.
func (r *Record) ApplyUserCategory(category string) {
	missing := make([]string, 0, len(r.MissingFields))
	for _, f := range r.MissingFields {
		if f != smsparse.FieldCategory {
			missing = append(missing, f)
		}
	}
	r.UserCategory = &category
	r.MissingFields = missing
	r.RequiresUserInput = r.NeedsReview || len(missing) > 0
}

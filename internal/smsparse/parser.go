// Package smsparse turns bank and wallet SMS notifications into structured
// transaction records. Parsing is a pure function of the message text,
// sender header and receipt time; the only collaborator is an optional
// CategorySuggester.
package smsparse

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CategorySuggester proposes a spending category for a message. An empty
// merchant means none was extracted; an empty result means no suggestion.
type CategorySuggester interface {
	SuggestCategory(ctx context.Context, text, merchant string) (string, error)
}

// Message is one raw notification as delivered to the device.
type Message struct {
	Text       string
	Sender     string
	ReceivedAt int64 // milliseconds since epoch
}

type Parser struct {
	suggester CategorySuggester
	loc       *time.Location
	log       zerolog.Logger
	newID     func(receivedAtMillis int64) string
}

type Option func(*Parser)

func WithSuggester(s CategorySuggester) Option {
	return func(p *Parser) { p.suggester = s }
}

// WithLocation sets the zone receipt timestamps are normalized into.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *Parser) { p.log = log }
}

func WithIDFunc(fn func(receivedAtMillis int64) string) Option {
	return func(p *Parser) {
		if fn != nil {
			p.newID = fn
		}
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{
		loc:   time.UTC,
		log:   zerolog.Nop(),
		newID: defaultID,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func defaultID(receivedAtMillis int64) string {
	return strconv.FormatInt(receivedAtMillis, 10) + "-" + uuid.NewString()
}

var defaultParser = New()

// Parse runs a parser with no category suggester and UTC receipt times.
func Parse(text, sender string, receivedAtMillis int64) ParsedRecord {
	return defaultParser.Parse(context.Background(), text, sender, receivedAtMillis)
}

// Parse never fails: text that yields nothing still produces a record
// with ParseSuccess false and a low confidence.
func (p *Parser) Parse(ctx context.Context, text, sender string, receivedAtMillis int64) ParsedRecord {
	receivedAt := time.UnixMilli(receivedAtMillis).In(p.loc)

	financial := IsFinancial(text, sender)
	provider := IdentifyProvider(sender)

	amount, amountOK := ExtractAmount(text)
	dt, _ := ExtractDateTime(text, receivedAt)
	suffix, suffixOK := ExtractAccountSuffix(text)
	balance, balanceOK := ExtractBalance(text)
	merchant, merchantOK := ExtractMerchant(text)

	txType := ClassifyTransactionType(text)
	category := ClassifyMessageCategory(text, provider)

	suggestion := p.suggest(ctx, text, merchant)

	eval := Evaluate(Signals{
		AmountFound:        amountOK,
		TypeResolved:       txType != TypeUnknown,
		ContentDate:        dt.Date != "",
		AccountSuffixFound: suffixOK,
		ProviderResolved:   provider != UnknownProvider,
		Category:           category,
		MerchantFound:      merchantOK,
		SuggestionFound:    suggestion != "",
	})

	rec := ParsedRecord{
		ID:         p.newID(receivedAtMillis),
		RawText:    text,
		Sender:     sender,
		ReceivedAt: receivedAt,
		Classification: Classification{
			MessageCategory: category,
			Provider:        provider,
		},
		Transaction: Transaction{
			Type:         txType,
			Amount:       amount,
			AmountParsed: amountOK,
			Currency:     HomeCurrency,
		},
		Metadata: Metadata{
			ParseSuccess:      amountOK && txType != TypeUnknown,
			Confidence:        eval.Confidence,
			NeedsReview:       eval.NeedsReview,
			MissingFields:     eval.MissingFields,
			RequiresUserInput: eval.RequiresUserInput,
			IsFinancial:       financial,
		},
	}

	rec.Transaction.Date, rec.Transaction.Time, rec.Transaction.DateSource = resolveDate(dt, receivedAt)

	if suffixOK {
		rec.Classification.AccountSuffix = &suffix
	}
	if merchantOK {
		rec.Transaction.Merchant = &merchant
	}
	if balanceOK {
		kind := BalanceCurrent
		if category == CategoryCreditCard {
			kind = BalanceAvailableCredit
		}
		rec.Balance = &Balance{Amount: balance, Kind: kind}
	}
	if suggestion != "" {
		rec.Metadata.SuggestedCategory = &suggestion
	}
	return rec
}

// ParseBatch parses each message independently, keeping input order.
func (p *Parser) ParseBatch(ctx context.Context, msgs []Message) []ParsedRecord {
	out := make([]ParsedRecord, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, p.Parse(ctx, m.Text, m.Sender, m.ReceivedAt))
	}
	return out
}

// resolveDate prefers a date from the message body. A body time without
// a body date is paired with the receipt date; with neither, the receipt
// date and time are used.
func resolveDate(dt DateTime, receivedAt time.Time) (string, *string, DateSource) {
	if dt.Date != "" {
		if dt.Time == "" {
			return dt.Date, nil, DateFromContent
		}
		clock := dt.Time
		return dt.Date, &clock, DateFromContent
	}
	clock := receivedAt.Format(time.TimeOnly)
	if dt.Time != "" {
		clock = dt.Time
	}
	return receivedAt.Format(time.DateOnly), &clock, DateFromReceipt
}

// suggest treats any failure of the suggester, including a panic, as no
// suggestion.
func (p *Parser) suggest(ctx context.Context, text, merchant string) (category string) {
	if p.suggester == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Debug().Interface("panic", r).Msg("category suggester panicked")
			category = ""
		}
	}()

	category, err := p.suggester.SuggestCategory(ctx, text, merchant)
	if err != nil {
		p.log.Debug().Err(err).Msg("category suggestion failed")
		return ""
	}
	return category
}

package smsparse

import (
	"time"

	"github.com/shopspring/decimal"
)

// HomeCurrency is the currency every extracted amount is reported in.
const HomeCurrency = "INR"

// ReviewThreshold is the confidence below which a record needs review.
const ReviewThreshold = 0.70

type MessageCategory string

const (
	CategoryBankAccount MessageCategory = "bank_account"
	CategoryCreditCard  MessageCategory = "credit_card"
	CategoryUPI         MessageCategory = "upi"
	CategoryWallet      MessageCategory = "wallet"
	CategoryUnknown     MessageCategory = "unknown"
)

type TransactionType string

const (
	TypeDebit    TransactionType = "debit"
	TypeCredit   TransactionType = "credit"
	TypeSpent    TransactionType = "spent"
	TypePayment  TransactionType = "payment"
	TypeRefund   TransactionType = "refund"
	TypeSent     TransactionType = "sent"
	TypeReceived TransactionType = "received"
	TypeUnknown  TransactionType = "unknown"
)

type BalanceKind string

const (
	BalanceCurrent         BalanceKind = "current"
	BalanceAvailableCredit BalanceKind = "available_credit"
)

// DateSource records where the transaction date came from.
type DateSource string

const (
	DateFromContent DateSource = "content"
	DateFromReceipt DateSource = "receipt"
)

// Missing field names reported in Metadata.MissingFields.
const (
	FieldMerchant = "merchant"
	FieldCategory = "category"
)

// ParsedRecord is the structured result of parsing one message. Optional
// fields are nil when the message did not contain them.
type ParsedRecord struct {
	ID             string         `json:"id"`
	RawText        string         `json:"rawText"`
	Sender         string         `json:"sender"`
	ReceivedAt     time.Time      `json:"receivedAt"`
	Classification Classification `json:"classification"`
	Transaction    Transaction    `json:"transaction"`
	Balance        *Balance       `json:"balance,omitempty"`
	Metadata       Metadata       `json:"metadata"`
}

type Classification struct {
	MessageCategory MessageCategory `json:"messageCategory"`
	Provider        string          `json:"provider"`
	AccountSuffix   *string         `json:"accountSuffix,omitempty"`
	UserCategory    *string         `json:"userCategory,omitempty"`
}

type Transaction struct {
	Type   TransactionType `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	// AmountParsed is false when Amount is zero only because no amount
	// was found in the text.
	AmountParsed bool       `json:"amountParsed"`
	Currency     string     `json:"currency"`
	Merchant     *string    `json:"merchant,omitempty"`
	Date         string     `json:"date"`
	Time         *string    `json:"time,omitempty"`
	DateSource   DateSource `json:"dateSource"`
	Notes        *string    `json:"notes,omitempty"`
}

type Balance struct {
	Amount decimal.Decimal `json:"amount"`
	Kind   BalanceKind     `json:"balanceKind"`
}

type Metadata struct {
	ParseSuccess      bool     `json:"parseSuccess"`
	Confidence        float64  `json:"confidence"`
	NeedsReview       bool     `json:"needsReview"`
	MissingFields     []string `json:"missingFields"`
	SuggestedCategory *string  `json:"suggestedCategory,omitempty"`
	RequiresUserInput bool     `json:"requiresUserInput"`
	IsFinancial       bool     `json:"isFinancial"`
}

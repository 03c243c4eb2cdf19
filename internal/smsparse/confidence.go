package smsparse

// Confidence contributions in hundredths, summing to exactly 100.
const (
	weightAmount        = 40
	weightType          = 30
	weightContentDate   = 10
	weightAccountSuffix = 10
	weightProvider      = 10
)

// Signals is what the extractors and classifiers produced for one message.
type Signals struct {
	AmountFound        bool
	TypeResolved       bool
	ContentDate        bool
	AccountSuffixFound bool
	ProviderResolved   bool
	Category           MessageCategory
	MerchantFound      bool
	SuggestionFound    bool
}

type Evaluation struct {
	Confidence        float64
	NeedsReview       bool
	MissingFields     []string
	RequiresUserInput bool
}

// Evaluate scores the signals and lists the fields a user still has to
// supply.
func Evaluate(s Signals) Evaluation {
	points := 0
	if s.AmountFound {
		points += weightAmount
	}
	if s.TypeResolved {
		points += weightType
	}
	if s.ContentDate {
		points += weightContentDate
	}
	if s.AccountSuffixFound {
		points += weightAccountSuffix
	}
	if s.ProviderResolved {
		points += weightProvider
	}
	confidence := float64(points) / 100

	missing := []string{}
	if (s.Category == CategoryCreditCard || s.Category == CategoryUPI) && !s.MerchantFound {
		missing = append(missing, FieldMerchant)
	}
	if !s.SuggestionFound {
		missing = append(missing, FieldCategory)
	}

	needsReview := confidence < ReviewThreshold
	return Evaluation{
		Confidence:        confidence,
		NeedsReview:       needsReview,
		MissingFields:     missing,
		RequiresUserInput: needsReview || len(missing) > 0,
	}
}

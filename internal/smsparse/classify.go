package smsparse

import (
	"regexp"
	"slices"
	"strings"
)

// typeRules are checked in order against the lower-cased text; the first
// keyword present decides the transaction type.
var typeRules = []struct {
	keywords *regexp.Regexp
	result   TransactionType
}{
	{regexp.MustCompile(`\b(?:debited|debit)\b`), TypeDebit},
	{regexp.MustCompile(`\b(?:credited|credit)\b`), TypeCredit},
	{regexp.MustCompile(`\bspent\b`), TypeSpent},
	{regexp.MustCompile(`\b(?:payment|paid)\b`), TypePayment},
	{regexp.MustCompile(`\brefund(?:ed)?\b`), TypeRefund},
	{regexp.MustCompile(`\bsent\b`), TypeSent},
	{regexp.MustCompile(`\breceived\b`), TypeReceived},
}

// ClassifyTransactionType returns the type named by the highest-priority
// keyword in text, or TypeUnknown.
func ClassifyTransactionType(text string) TransactionType {
	lower := strings.ToLower(text)
	for _, rule := range typeRules {
		if rule.keywords.MatchString(lower) {
			return rule.result
		}
	}
	return TypeUnknown
}

var (
	upiProviders    = []string{"PHONEPE", "GPAY"}
	walletProviders = []string{"PAYTM", "AMAZONPAY"}
)

// categoryRule predicates receive the lower-cased text and the
// canonical provider name.
type categoryRule struct {
	name   string
	match  func(lower, provider string) bool
	result MessageCategory
}

// categoryRules is ordered: a card spend that also mentions an account
// is still a credit card message.
var categoryRules = []categoryRule{
	{
		name: "card spend",
		match: func(lower, _ string) bool {
			return strings.Contains(lower, "card") &&
				(strings.Contains(lower, "spent") || strings.Contains(lower, "payment"))
		},
		result: CategoryCreditCard,
	},
	{
		name: "upi",
		match: func(lower, provider string) bool {
			return strings.Contains(lower, "upi") || slices.Contains(upiProviders, provider)
		},
		result: CategoryUPI,
	},
	{
		name: "wallet provider",
		match: func(_, provider string) bool {
			return slices.Contains(walletProviders, provider)
		},
		result: CategoryWallet,
	},
	{
		name: "bank account",
		match: func(lower, _ string) bool {
			return strings.Contains(lower, "a/c") || strings.Contains(lower, "account")
		},
		result: CategoryBankAccount,
	},
}

func ClassifyMessageCategory(text, provider string) MessageCategory {
	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		if rule.match(lower, provider) {
			return rule.result
		}
	}
	return CategoryUnknown
}

package smsparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTransactionType(t *testing.T) {
	tests := []struct {
		text string
		want TransactionType
	}{
		{"Rs.500.00 debited from A/c XX1234", TypeDebit},
		{"Debit of INR 40 on your card", TypeDebit},
		{"Rs 250 CREDITED to your a/c", TypeCredit},
		{"Rs 1500 spent on ICICI Card XX9012", TypeSpent},
		{"Payment of Rs 3000 received towards your card", TypePayment},
		{"You paid Rs 65 to Anthony", TypePayment},
		{"Refund of Rs 120 processed", TypeRefund},
		{"Rs 40 refunded to your wallet", TypeRefund},
		{"Rs 40 sent to Divinah via UPI", TypeSent},
		{"You have received Rs 900", TypeReceived},
		{"Rs.500 debited and Rs.500 credited", TypeDebit},
		{"Consent recorded for Rs 10", TypeUnknown},
		{"Hello there", TypeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTransactionType(tt.text), tt.text)
	}
}

func TestClassifyMessageCategory(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		provider string
		want     MessageCategory
	}{
		{"card spend", "Rs 1500 spent on ICICI Card XX9012 at Amazon", "ICICI", CategoryCreditCard},
		{"card payment", "Payment of Rs 3000 received on your card", "HDFC", CategoryCreditCard},
		{"card rule before account rule", "Rs 200 spent on Card XX1111 linked to A/c XX2222", "HDFC", CategoryCreditCard},
		{"upi keyword", "Rs 40 debited from A/c XX1234 via UPI", "SBI", CategoryUPI},
		{"upi provider", "Rs 40 sent to Ramesh", "PHONEPE", CategoryUPI},
		{"wallet provider", "Rs 40 added to wallet", "PAYTM", CategoryWallet},
		{"bank account", "Rs.500.00 debited from A/c XX1234", "HDFC", CategoryBankAccount},
		{"account word", "INR 250 credited to your account", UnknownProvider, CategoryBankAccount},
		{"card without spend", "Your card XX1234 is blocked", "HDFC", CategoryUnknown},
		{"nothing", "Hello there", UnknownProvider, CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMessageCategory(tt.text, tt.provider))
		})
	}
}

func TestCategoryRulesOrder(t *testing.T) {
	names := make([]string, 0, len(categoryRules))
	for _, r := range categoryRules {
		names = append(names, r.name)
	}
	assert.Equal(t, []string{"card spend", "upi", "wallet provider", "bank account"}, names)
}

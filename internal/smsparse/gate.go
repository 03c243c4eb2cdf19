package smsparse

import "regexp"

var (
	// Any of these makes a message non-financial, whatever else it says.
	exclusionPattern = regexp.MustCompile(`(?i)\botps?|\bverif(?:y|ication)|\b(?:one[\s-]time[\s-]password|security\s+code|do\s+not\s+share|don'?t\s+share|never\s+share|promo\s*code|offers?|congratulations|congrats|you\s+have\s+won|win\s+(?:a|an|up\s*to)|contest|lucky\s+draw|pre-?approved|apply\s+now|click\s+here)\b`)

	financialKeywordPattern = regexp.MustCompile(`(?i)\b(?:debited|credited|debit|credit|spent|upi|emi|balance|bal|a/c|acct|account|txn|transaction|withdrawn|withdrawal|paid|payment|received|refund|refunded|sent|imps|neft|rtgs)\b`)
)

// IsFinancial reports whether text looks like a transaction notification.
// Exclusion phrases (OTPs, promotions) win outright. Otherwise the message
// needs a known sender or a financial keyword, and a monetary amount.
func IsFinancial(text, sender string) bool {
	if exclusionPattern.MatchString(text) {
		return false
	}
	trusted := IdentifyProvider(sender) != UnknownProvider || financialKeywordPattern.MatchString(text)
	if !trusted {
		return false
	}
	_, hasAmount := ExtractAmount(text)
	return hasAmount
}

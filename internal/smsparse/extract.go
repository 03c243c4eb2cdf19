package smsparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// number is a run of digits with optional thousands separators and fraction.
const number = `(\d[\d,]*(?:\.\d+)?)`

var (
	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:\brs\.?|\binr|₹)\s*` + number),
		regexp.MustCompile(`(?i)` + number + `\s*(?:rs\b|inr\b|₹)`),
	}

	balancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:\bavl\.?\s*bal(?:ance)?|\bavailable\s+balance|\bbalance|\bbal)\s*(?:is\s*)?[:.\-]?\s*(?:rs\.?|inr|₹)?\s*` + number),
		regexp.MustCompile(`(?i)(?:\bavl\.?\s*(?:lmt|limit)|\bavailable\s+(?:credit\s+)?limit)\s*(?:is\s*)?[:.\-]?\s*(?:rs\.?|inr|₹)?\s*` + number),
	}

	accountSuffixPattern = regexp.MustCompile(`(?i)(?:\ba/c|\bcard|\baccount)\s*(?:no\.?\s*)?(?:ending\s*(?:with\s*)?)?[x*]*(\d{4,})`)

	merchantWords    = `[A-Z][A-Za-z&'\-]*(?:\s+[A-Z][A-Za-z&'\-]*)*`
	merchantEnd      = `\s*(?:\b(?:[Oo][Nn]|[Aa][Tt])\b|[.,]|$)`
	merchantPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b[Aa][Tt]\s+(` + merchantWords + `)` + merchantEnd),
		regexp.MustCompile(`\b[Oo][Nn]\s+(` + merchantWords + `)` + merchantEnd),
	}
	// A capture naming the payment instrument is not a merchant.
	instrumentWord = regexp.MustCompile(`(?i)\b(?:card|a/c|acct|account)\b`)

	monthNameDate = regexp.MustCompile(`(?i)\b(\d{1,2})-([a-z]{3})-(\d{4}|\d{2})\b`)
	slashDate     = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})\b`)
	dashDate      = regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4}|\d{2})\b`)
	onDayMonth    = regexp.MustCompile(`(?i)\bon\s+(\d{1,2})\s?(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b`)
	clockTime     = regexp.MustCompile(`\b(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\s?([AaPp][Mm]))?\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// DateTime is what the date/time extractor found in the message body.
// Date is empty when only a clock time was present.
type DateTime struct {
	Date string // YYYY-MM-DD
	Time string // HH:MM:SS
}

func parseNumber(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

func firstNumber(patterns []*regexp.Regexp, text string) (decimal.Decimal, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d, ok := parseNumber(m[1]); ok {
			return d, true
		}
	}
	return decimal.Zero, false
}

// ExtractAmount finds the first currency amount, trying "Rs 500" style
// before "500 INR" style.
func ExtractAmount(text string) (decimal.Decimal, bool) {
	return firstNumber(amountPatterns, text)
}

// ExtractBalance finds a stated account balance or, failing that, an
// available credit limit.
func ExtractBalance(text string) (decimal.Decimal, bool) {
	return firstNumber(balancePatterns, text)
}

// ExtractAccountSuffix returns the visible digits of a masked account or
// card number, e.g. "1234" from "A/c XX1234".
func ExtractAccountSuffix(text string) (string, bool) {
	m := accountSuffixPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractMerchant returns the capitalized name following "at" or "on".
// Names with digits, such as card masks, and names of the card or account
// itself are skipped.
func ExtractMerchant(text string) (string, bool) {
	for _, re := range merchantPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if name == "" || instrumentWord.MatchString(name) {
				continue
			}
			return name, true
		}
	}
	return "", false
}

// ExtractDateTime looks for a transaction date and clock time in text.
// receivedAt supplies the century for two-digit years and the year for
// dates written without one.
func ExtractDateTime(text string, receivedAt time.Time) (DateTime, bool) {
	var dt DateTime
	if date, ok := extractDate(text, receivedAt); ok {
		dt.Date = date.Format(time.DateOnly)
	}
	if clock, ok := extractTime(text); ok {
		dt.Time = clock
	}
	return dt, dt.Date != "" || dt.Time != ""
}

func extractDate(text string, receivedAt time.Time) (time.Time, bool) {
	century := receivedAt.Year() / 100 * 100

	for _, m := range monthNameDate.FindAllStringSubmatch(text, -1) {
		month, ok := months[strings.ToLower(m[2])]
		if !ok {
			continue
		}
		if d, ok := buildDate(m[1], int(month), m[3], century); ok {
			return d, true
		}
	}
	for _, re := range []*regexp.Regexp{slashDate, dashDate} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			month, _ := strconv.Atoi(m[2])
			if d, ok := buildDate(m[1], month, m[3], century); ok {
				return d, true
			}
		}
	}
	// No year given: the latest such date not after receipt.
	received := time.Date(receivedAt.Year(), receivedAt.Month(), receivedAt.Day(), 0, 0, 0, 0, time.UTC)
	for _, m := range onDayMonth.FindAllStringSubmatch(text, -1) {
		month := months[strings.ToLower(m[2][:3])]
		d, ok := buildDate(m[1], int(month), strconv.Itoa(received.Year()), century)
		if ok && d.After(received) {
			d, ok = buildDate(m[1], int(month), strconv.Itoa(received.Year()-1), century)
		}
		if ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// buildDate rejects impossible dates such as 31/02 instead of letting
// time.Date roll them over.
func buildDate(dayStr string, month int, yearStr string, century int) (time.Time, bool) {
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	if len(yearStr) == 2 {
		year += century
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	return d, true
}

func extractTime(text string) (string, bool) {
	for _, m := range clockTime.FindAllStringSubmatch(text, -1) {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		second := 0
		if m[3] != "" {
			second, _ = strconv.Atoi(m[3])
		}
		switch strings.ToUpper(m[4]) {
		case "AM":
			if hour == 12 {
				hour = 0
			}
		case "PM":
			if hour < 12 {
				hour += 12
			}
		}
		if hour > 23 || minute > 59 || second > 59 {
			continue
		}
		return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second), true
	}
	return "", false
}

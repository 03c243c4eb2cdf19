package smsparse

import "strings"

// UnknownProvider is reported when the sender matches no known institution.
const UnknownProvider = "UNKNOWN"

// Provider maps a canonical institution name to the sender-header
// fragments it sends from.
type Provider struct {
	Name    string
	Aliases []string
}

// Providers is checked in order; the first provider with a matching
// alias wins, so more specific headers must come before short ones.
var Providers = []Provider{
	{Name: "HDFC", Aliases: []string{"HDFCBK", "HDFCBN", "HDFC"}},
	{Name: "ICICI", Aliases: []string{"ICICIB", "ICICIT", "ICICI"}},
	{Name: "SBI", Aliases: []string{"SBIINB", "SBIPSG", "SBICRD", "CBSSBI", "SBI"}},
	{Name: "AXIS", Aliases: []string{"AXISBK", "AXISCR", "AXIS"}},
	{Name: "KOTAK", Aliases: []string{"KOTAKB", "KOTAK"}},
	{Name: "YES", Aliases: []string{"YESBNK", "YESBK"}},
	{Name: "PNB", Aliases: []string{"PNBSMS", "PUNBNK"}},
	{Name: "BOB", Aliases: []string{"BOBTXN", "BOBSMS"}},
	{Name: "IDFC", Aliases: []string{"IDFCFB", "IDFCBK"}},
	{Name: "INDUSIND", Aliases: []string{"INDUSB", "INDUSIND"}},
	{Name: "AMEX", Aliases: []string{"AMEXIN", "AMEX"}},
	{Name: "PAYTM", Aliases: []string{"PAYTMB", "PAYTM", "PYTM"}},
	{Name: "PHONEPE", Aliases: []string{"PHONPE", "PHONEPE"}},
	{Name: "GPAY", Aliases: []string{"GOOGLEPAY", "GPAY"}},
	{Name: "AMAZONPAY", Aliases: []string{"AMAZONPAY", "AMZPAY"}},
	{Name: "MOBIKWIK", Aliases: []string{"MOBIKWIK", "MOBIKW"}},
}

// IdentifyProvider returns the canonical provider for a sender header
// such as "VM-HDFCBK", or UnknownProvider.
func IdentifyProvider(sender string) string {
	s := strings.ToUpper(sender)
	if s == "" {
		return UnknownProvider
	}
	for _, p := range Providers {
		for _, alias := range p.Aliases {
			if strings.Contains(s, alias) {
				return p.Name
			}
		}
	}
	return UnknownProvider
}

package discord

import "strings"

// smsEnvelope is one forwarded SMS with the optional metadata the user
// typed under it.
type smsEnvelope struct {
	Sender   string
	Text     string
	Category string
	Notes    string
}

type headerKind int

const (
	headerNone headerKind = iota
	headerSender
	headerCategory
	headerNotes
)

var headerPrefixes = []struct {
	prefix string
	kind   headerKind
}{
	{"sender:", headerSender},
	{"s:", headerSender},
	{"category:", headerCategory},
	{"c:", headerCategory},
	{"reason:", headerNotes},
	{"note:", headerNotes},
	{"r:", headerNotes},
}

func parseHeader(line string) (headerKind, string) {
	lower := strings.ToLower(line)
	for _, h := range headerPrefixes {
		if strings.HasPrefix(lower, h.prefix) {
			return h.kind, strings.TrimSpace(line[len(h.prefix):])
		}
	}
	return headerNone, ""
}

// parseEnvelope reads a single forwarded SMS. Header lines may appear
// anywhere; every other line is message text.
func parseEnvelope(lines []string) smsEnvelope {
	var env smsEnvelope
	var text []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch kind, value := parseHeader(line); kind {
		case headerSender:
			env.Sender = value
		case headerCategory:
			env.Category = value
		case headerNotes:
			env.Notes = value
		default:
			text = append(text, line)
		}
	}
	env.Text = strings.Join(text, " ")
	return env
}

func isBatchMessage(lines []string) bool {
	senders := 0
	for _, line := range lines {
		if kind, _ := parseHeader(strings.TrimSpace(line)); kind == headerSender {
			senders++
		}
	}
	return senders > 1
}

// splitIntoMessages starts a new SMS at every sender line. Lines before the
// first sender are dropped.
func splitIntoMessages(lines []string) []smsEnvelope {
	var envelopes []smsEnvelope
	var current []string
	for _, line := range lines {
		if kind, _ := parseHeader(strings.TrimSpace(line)); kind == headerSender {
			if current != nil {
				envelopes = append(envelopes, parseEnvelope(current))
			}
			current = []string{line}
			continue
		}
		if current != nil {
			current = append(current, line)
		}
	}
	if current != nil {
		envelopes = append(envelopes, parseEnvelope(current))
	}
	return envelopes
}

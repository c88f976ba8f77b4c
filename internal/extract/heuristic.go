// Package extract turns raw invoice text into a partial HUB3 payment record.
// The heuristic path is pure pattern matching; the resolver optionally routes
// through an LLM provider and always falls back to the heuristics.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ikrajcar/uplatko/internal/hub3"
)

// Banks format IBANs with inconsistent spacing, so the match tolerates
// interleaved whitespace and is compacted afterwards.
var ibanPattern = regexp.MustCompile(`HR\d{2}[\s\d]{15,25}`)

// Amount labels in priority order: "za naplatu" is the amount actually due
// (with VAT), the rest are progressively weaker totals.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)za naplatu[^\d]*(\d{1,3}(?:[.,]\d{3})*[.,]\d{2})`),
	regexp.MustCompile(`(?i)sveukupno[^\d]*(\d{1,3}(?:[.,]\d{3})*[.,]\d{2})`),
	regexp.MustCompile(`(?i)ukupno[^\d]*(\d{1,3}(?:[.,]\d{3})*[.,]\d{2})`),
	regexp.MustCompile(`(?i)iznos[^\d]*(\d{1,3}(?:[.,]\d{3})*[.,]\d{2})`),
}

var (
	referencePattern   = regexp.MustCompile(`(?i)(?:poziv na broj|poziv|reference)[^\n]*?([0-9][\d\s\-/]{3,})`)
	modelPattern       = regexp.MustCompile(`(?i)model[^\w]*(HR\d{2})`)
	descriptionPattern = regexp.MustCompile(`(?i)(?:opis pla[cć]anja|opis|svrha)\s*:?\s*([^\n]{3,35})`)

	whitespacePattern = regexp.MustCompile(`\s`)
	postalCodePattern = regexp.MustCompile(`^\d{5}\s*`)

	// Candidate filters for the recipient header block.
	notNamePattern    = regexp.MustCompile(`^(OIB|Tel|Mob|Fax|\d)`)
	currencyLikeStart = regexp.MustCompile(`^\d{1,3}[.,]\d{2}`)
	containsDigit     = regexp.MustCompile(`\d`)
	labelledLine      = regexp.MustCompile(`^(OIB|IBAN)`)
	cityPattern       = regexp.MustCompile(`^(?:\d{5}\s+)?[A-ZŠĐČĆŽ][a-zšđčćž]`)
)

// Heuristic extracts payment fields from raw invoice text. It is
// deterministic and never fails: fields that cannot be found with confidence
// are left unset. Payer fields are never populated since the banking app
// fills them from the scanning user's account.
func Heuristic(text string) hub3.PartialRecord {
	iban := parseIBAN(text)
	name, address, city := parseRecipientHeader(text, iban)

	p := hub3.PartialRecord{
		RecipientName:    name,
		RecipientAddress: address,
		RecipientCity:    city,
		IBAN:             iban,
		Amount:           parseAmount(text),
		ReferenceNumber:  parseReference(text),
		Model:            parseModel(text),
		Description:      parseDescription(text),
		PurposeCode:      "OTHR",
		Currency:         "EUR",
	}
	if p.Model == "" {
		p.Model = "HR68"
	}
	return p
}

// parseIBAN returns the last IBAN-shaped match with internal whitespace
// stripped. The recipient IBAN conventionally sits near the bottom of the
// invoice, below any sender or reference IBANs.
func parseIBAN(text string) string {
	matches := ibanPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return whitespacePattern.ReplaceAllString(matches[len(matches)-1], "")
}

// parseAmount tries the labelled patterns most-specific first and normalizes
// the Croatian number format (dot for thousands, comma for decimals).
func parseAmount(text string) float64 {
	for _, pattern := range amountPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		normalized := strings.ReplaceAll(m[1], ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
		value, err := strconv.ParseFloat(normalized, 64)
		if err == nil {
			return value
		}
	}
	return 0
}

// parseReference captures a reference token (digits, spaces, dashes, slashes)
// following a "poziv na broj" style label, e.g. 1676-10-25.
func parseReference(text string) string {
	m := referencePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func parseModel(text string) string {
	m := modelPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func parseDescription(text string) string {
	m := descriptionPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// parseRecipientHeader locates the recipient block. Croatian invoices almost
// always print the company name, street and city in the lines directly above
// the IBAN, so the heuristic takes a 4-line window before the IBAN line and
// classifies the candidates. The window is skipped entirely when the IBAN
// appears within the first few lines, where the lookback would overlap the
// document header.
func parseRecipientHeader(text, iban string) (name, address, city string) {
	if iban == "" {
		return "", "", ""
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	prefix := iban
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}

	ibanLine := -1
	for i, line := range lines {
		if strings.Contains(whitespacePattern.ReplaceAllString(line, ""), prefix) {
			ibanLine = i
			break
		}
	}
	if ibanLine <= 2 {
		return "", "", ""
	}

	start := ibanLine - 4
	if start < 0 {
		start = 0
	}
	candidates := lines[start:ibanLine]

	for _, line := range candidates {
		if len(line) > 2 && !notNamePattern.MatchString(line) && !currencyLikeStart.MatchString(line) {
			name = line
			break
		}
	}
	if name == "" {
		return "", "", ""
	}

	for _, line := range candidates {
		if line != name && containsDigit.MatchString(line) && !labelledLine.MatchString(line) {
			address = line
			break
		}
	}

	for _, line := range candidates {
		if line != name && line != address && cityPattern.MatchString(line) {
			city = postalCodePattern.ReplaceAllString(line, "")
			break
		}
	}

	name = truncateRunes(name, 30)
	address = truncateRunes(address, 27)
	city = truncateRunes(city, 27)
	return name, address, city
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

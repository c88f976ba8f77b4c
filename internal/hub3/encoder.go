package hub3

import (
	"fmt"
	"math"
	"strings"
)

const hub3Header = "HRVHUB30"

// Field width limits from the HUB3 form layout. Over-length values are
// clipped at encode time, never rejected.
const (
	maxNameLen        = 30
	maxAddressLen     = 27
	maxCityLen        = 27
	maxDescriptionLen = 35
)

// maxCents bounds the 15-digit zero-padded amount field.
const maxCents = int64(1e15) - 1

// sanitize removes newline characters that would corrupt the newline-delimited
// field structure of the payload.
func sanitize(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.ReplaceAll(value, "\n", " ")
}

// truncate clips value to at most max runes.
func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}

func sanitizeAndTruncate(value string, max int) string {
	return truncate(sanitize(value), max)
}

// formatAmount renders the amount as a 15-digit zero-padded cent count,
// rounded to the nearest cent.
func formatAmount(amount float64) (string, error) {
	cents := int64(math.Round(amount * 100))
	if cents <= 0 {
		return "", &FormatError{Field: "amount", Reason: "must be positive"}
	}
	if cents > maxCents {
		return "", &FormatError{Field: "amount", Reason: "exceeds 15-digit cent field"}
	}
	return fmt.Sprintf("%015d", cents), nil
}

// Encode builds the HUB3 payload: exactly 14 fields joined by a single
// newline with no trailing newline. Field order and count are fixed by the
// standard; banking scanners parse positionally.
//
// Encoding is pure and idempotent. Over-length free-text fields are clipped
// silently; an invalid IBAN or non-positive amount is a hard error because a
// malformed payload scans as garbage in the banking app.
func Encode(r Record) (string, error) {
	if !ibanPattern.MatchString(r.IBAN) {
		return "", &FormatError{Field: "iban", Reason: "must match HR + 19 digits"}
	}

	amount, err := formatAmount(r.Amount)
	if err != nil {
		return "", err
	}

	fields := []string{
		hub3Header,
		Currency,
		amount,
		sanitizeAndTruncate(r.PayerName, maxNameLen),
		sanitizeAndTruncate(r.PayerAddress, maxAddressLen),
		sanitizeAndTruncate(r.PayerCity, maxCityLen),
		sanitizeAndTruncate(r.RecipientName, maxNameLen),
		sanitizeAndTruncate(r.RecipientAddress, maxAddressLen),
		sanitizeAndTruncate(r.RecipientCity, maxCityLen),
		r.IBAN, // digit-only pattern, cannot contain a newline
		sanitize(r.Model),
		sanitize(r.ReferenceNumber),
		r.PurposeCode, // registry code, always 4 characters
		sanitizeAndTruncate(r.Description, maxDescriptionLen),
	}

	return strings.Join(fields, "\n"), nil
}

package hub3

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Croatian IBAN: country code HR plus 19 decimal digits, no separators.
var ibanPattern = regexp.MustCompile(`^HR\d{19}$`)

// FormatError reports a record field that would produce a malformed payload.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("hub3: invalid %s: %s", e.Field, e.Reason)
}

// Validate checks a completed record against encoder preconditions and form
// requirements. The encoder re-checks IBAN and amount defensively; everything
// else is enforced only here, since over-length text is clipped rather than
// rejected at encode time.
func Validate(r Record) error {
	if !ibanPattern.MatchString(r.IBAN) {
		return &FormatError{Field: "iban", Reason: "must match HR + 19 digits"}
	}
	if r.Amount <= 0 {
		return &FormatError{Field: "amount", Reason: "must be positive"}
	}
	if r.RecipientName == "" {
		return &FormatError{Field: "recipientName", Reason: "required"}
	}
	if r.Model == "" {
		return &FormatError{Field: "model", Reason: "required"}
	}
	if utf8.RuneCountInString(r.Model) > 5 {
		return &FormatError{Field: "model", Reason: "at most 5 characters"}
	}
	if r.ReferenceNumber == "" {
		return &FormatError{Field: "referenceNumber", Reason: "required"}
	}
	if !ValidPurposeCode(r.PurposeCode) {
		return &FormatError{Field: "purposeCode", Reason: "not in the purpose code registry"}
	}
	if r.Description == "" {
		return &FormatError{Field: "description", Reason: "required"}
	}
	if r.Currency != "" && r.Currency != Currency {
		return &FormatError{Field: "currency", Reason: "only EUR is supported"}
	}
	return nil
}

// Complete merges a partial record with defaults into an encodable Record.
// It does not validate; callers run Validate before encoding.
func Complete(p PartialRecord) Record {
	r := Record{
		PayerName:        p.PayerName,
		PayerAddress:     p.PayerAddress,
		PayerCity:        p.PayerCity,
		RecipientName:    p.RecipientName,
		RecipientAddress: p.RecipientAddress,
		RecipientCity:    p.RecipientCity,
		IBAN:             p.IBAN,
		Amount:           p.Amount,
		Model:            p.Model,
		ReferenceNumber:  p.ReferenceNumber,
		PurposeCode:      p.PurposeCode,
		Description:      p.Description,
		Currency:         Currency,
	}
	if r.Model == "" {
		r.Model = "HR68"
	}
	if r.PurposeCode == "" {
		r.PurposeCode = "OTHR"
	}
	return r
}

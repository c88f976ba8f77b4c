package hub3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr string
	}{
		{"valid record", func(r *Record) {}, ""},
		{"iban wrong country", func(r *Record) { r.IBAN = "DE1210010051863000160" }, "iban"},
		{"iban with spaces", func(r *Record) { r.IBAN = "HR12 1001 0051 8630 0016 0" }, "iban"},
		{"zero amount", func(r *Record) { r.Amount = 0 }, "amount"},
		{"missing recipient", func(r *Record) { r.RecipientName = "" }, "recipientName"},
		{"model too long", func(r *Record) { r.Model = "HR6800" }, "model"},
		{"missing reference", func(r *Record) { r.ReferenceNumber = "" }, "referenceNumber"},
		{"unknown purpose code", func(r *Record) { r.PurposeCode = "XXXX" }, "purposeCode"},
		{"missing description", func(r *Record) { r.Description = "" }, "description"},
		{"foreign currency", func(r *Record) { r.Currency = "USD" }, "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)
			err := Validate(r)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantErr, fe.Field)
		})
	}
}

func TestCompleteAppliesDefaults(t *testing.T) {
	r := Complete(PartialRecord{IBAN: "HR1210010051863000160", Amount: 50})

	assert.Equal(t, "HR68", r.Model)
	assert.Equal(t, "OTHR", r.PurposeCode)
	assert.Equal(t, "EUR", r.Currency)
	assert.Equal(t, 50.0, r.Amount)
}

func TestCompleteKeepsExtractedValues(t *testing.T) {
	r := Complete(PartialRecord{Model: "HR00", PurposeCode: "RENT"})

	assert.Equal(t, "HR00", r.Model)
	assert.Equal(t, "RENT", r.PurposeCode)
}

func TestPurposeCodeRegistry(t *testing.T) {
	assert.True(t, ValidPurposeCode("OTHR"))
	assert.True(t, ValidPurposeCode("SALA"))
	assert.False(t, ValidPurposeCode("othr"))
	assert.False(t, ValidPurposeCode(""))
	for code := range PurposeCodes {
		assert.Len(t, code, 4)
	}
}

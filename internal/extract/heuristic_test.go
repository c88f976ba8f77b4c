package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicPicksLastIBAN(t *testing.T) {
	text := "Naš IBAN: HR6523400091110098765\n" +
		"...\n" +
		"Uplatu izvršiti na IBAN: HR1210010051863000160\n"

	p := Heuristic(text)
	assert.Equal(t, "HR1210010051863000160", p.IBAN)
}

func TestHeuristicIBANWithBankSpacing(t *testing.T) {
	p := Heuristic("IBAN: HR12 1001 0051 8630 0016 0")
	assert.Equal(t, "HR1210010051863000160", p.IBAN)
}

func TestHeuristicAmountLocaleParsing(t *testing.T) {
	p := Heuristic("Ukupno: 1.234,56 EUR")
	assert.Equal(t, 1234.56, p.Amount)
}

func TestHeuristicAmountLabelPriority(t *testing.T) {
	text := "Ukupno: 120,00\nZa naplatu: 100,00\nIznos: 80,00"
	p := Heuristic(text)
	assert.Equal(t, 100.0, p.Amount)
}

func TestHeuristicAmountAbsentWithoutLabel(t *testing.T) {
	p := Heuristic("Nema nikakvog iznosa ovdje")
	assert.Zero(t, p.Amount)
}

func TestHeuristicReferenceNumber(t *testing.T) {
	p := Heuristic("Poziv na broj: 1676-10-25")
	assert.Equal(t, "1676-10-25", p.ReferenceNumber)
}

func TestHeuristicModelDefault(t *testing.T) {
	p := Heuristic("tekst bez oznake modela")
	assert.Equal(t, "HR68", p.Model)
}

func TestHeuristicModelLabelled(t *testing.T) {
	p := Heuristic("Model: HR00\nPoziv na broj: 123-45")
	assert.Equal(t, "HR00", p.Model)
}

func TestHeuristicDescription(t *testing.T) {
	p := Heuristic("Opis plaćanja: Najam za listopad")
	assert.Equal(t, "Najam za listopad", p.Description)
}

func TestHeuristicDefaults(t *testing.T) {
	p := Heuristic("")
	assert.Equal(t, "OTHR", p.PurposeCode)
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, "HR68", p.Model)
	assert.Empty(t, p.PayerName)
	assert.Empty(t, p.PayerAddress)
	assert.Empty(t, p.PayerCity)
}

func TestHeuristicRecipientHeader(t *testing.T) {
	text := "ACME d.o.o.\nIlica 1\n10000 Zagreb\nIBAN: HR1210010051863000160\nUkupno: 100,00"

	p := Heuristic(text)

	assert.Equal(t, "ACME d.o.o.", p.RecipientName)
	assert.Equal(t, "Ilica 1", p.RecipientAddress)
	assert.Equal(t, "Zagreb", p.RecipientCity)
	assert.Equal(t, "HR1210010051863000160", p.IBAN)
	assert.Equal(t, 100.0, p.Amount)
	assert.Equal(t, "HR68", p.Model)
	assert.Equal(t, "OTHR", p.PurposeCode)
	assert.Equal(t, "EUR", p.Currency)
}

func TestHeuristicRecipientSkipsLabelledLines(t *testing.T) {
	text := "OIB: 12345678901\nACME d.o.o.\nIlica 1\n10000 Zagreb\nIBAN: HR1210010051863000160"

	p := Heuristic(text)
	assert.Equal(t, "ACME d.o.o.", p.RecipientName)
	assert.Equal(t, "Ilica 1", p.RecipientAddress)
	assert.Equal(t, "Zagreb", p.RecipientCity)
}

func TestHeuristicRecipientAbsentWhenIBANNearTop(t *testing.T) {
	text := "ACME d.o.o.\nIBAN: HR1210010051863000160\nUkupno: 50,00"

	p := Heuristic(text)
	assert.Empty(t, p.RecipientName)
	assert.Empty(t, p.RecipientAddress)
	assert.Empty(t, p.RecipientCity)
	assert.Equal(t, "HR1210010051863000160", p.IBAN)
}

func TestHeuristicRecipientAbsentWithoutIBAN(t *testing.T) {
	p := Heuristic("ACME d.o.o.\nIlica 1\n10000 Zagreb\nUkupno: 50,00")
	assert.Empty(t, p.RecipientName)
	assert.Empty(t, p.IBAN)
}

// Package hub3 models Croatian HUB3 payment slips and encodes them into the
// newline-delimited payload consumed by PDF417 barcode scanners in banking apps.
package hub3

// Currency is fixed by the HUB3 standard since the euro changeover.
const Currency = "EUR"

// Record holds a complete payment slip, ready for encoding.
type Record struct {
	PayerName        string  `json:"payerName"`
	PayerAddress     string  `json:"payerAddress"`
	PayerCity        string  `json:"payerCity"`
	RecipientName    string  `json:"recipientName"`
	RecipientAddress string  `json:"recipientAddress"`
	RecipientCity    string  `json:"recipientCity"`
	IBAN             string  `json:"iban"`
	Amount           float64 `json:"amount"`
	Model            string  `json:"model"`
	ReferenceNumber  string  `json:"referenceNumber"`
	PurposeCode      string  `json:"purposeCode"`
	Description      string  `json:"description"`
	Currency         string  `json:"currency"`
}

// PartialRecord is the output of extraction: every field optional, zero value
// meaning "not found". It is not encodable until completed by the user and
// promoted to a Record.
type PartialRecord struct {
	PayerName        string  `json:"payerName,omitempty"`
	PayerAddress     string  `json:"payerAddress,omitempty"`
	PayerCity        string  `json:"payerCity,omitempty"`
	RecipientName    string  `json:"recipientName,omitempty"`
	RecipientAddress string  `json:"recipientAddress,omitempty"`
	RecipientCity    string  `json:"recipientCity,omitempty"`
	IBAN             string  `json:"iban,omitempty"`
	Amount           float64 `json:"amount,omitempty"`
	Model            string  `json:"model,omitempty"`
	ReferenceNumber  string  `json:"referenceNumber,omitempty"`
	PurposeCode      string  `json:"purposeCode,omitempty"`
	Description      string  `json:"description,omitempty"`
	Currency         string  `json:"currency,omitempty"`
}

// PurposeCodes is the closed registry of payment purpose codes with their
// Croatian labels. The code set follows the national ISO 20022 subset used on
// printed payment slips.
var PurposeCodes = map[string]string{
	"OTHR": "Ostalo",
	"ADVA": "Avans",
	"SALA": "Plaća",
	"COST": "Troškovi",
	"SUPP": "Dobavljač",
	"RENT": "Najam",
	"COMM": "Provizija",
	"TAXS": "Porez",
	"GOVT": "Vlada / Država",
	"UTIL": "Režije",
	"CASH": "Gotovina",
	"DIVI": "Dividenda",
	"LOAN": "Zajam",
}

// ValidPurposeCode reports whether code is in the registry.
func ValidPurposeCode(code string) bool {
	_, ok := PurposeCodes[code]
	return ok
}

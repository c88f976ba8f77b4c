package llm

// extractionPrompt instructs the model to return a bare JSON object with the
// same field set the heuristic extractor produces. The "omit, never invent"
// rules keep absent fields absent instead of hallucinated.
const extractionPrompt = `You are a data extraction assistant for Croatian invoices.
Extract payment fields and return ONLY a valid JSON object with no markdown, no explanation, no code blocks.

Extract these fields if present:
- iban: Croatian IBAN (HR + 19 digits)
- amount: number (decimal, e.g. 123.45)
- recipientName: company/person name (max 30 chars)
- recipientAddress: street and number (max 27 chars)
- recipientCity: city with postal code (max 27 chars)
- referenceNumber: payment reference (e.g. 123-456-789)
- model: payment model code (e.g. HR68, HR00)
- description: payment description (max 35 chars)

Rules:
- Omit any field you cannot find with confidence
- Do not invent or guess values
- amount must be a number, not a string
- Return only the JSON object, nothing else`

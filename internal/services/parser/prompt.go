package parser

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const systemPromptTemplate = `You are an expert expense parser. Convert the user's description of an expense into a structured JSON object.

Reference date: %s

Fields:
- amount: the expense amount as a positive number
- category: one of: %s. If nothing fits, use '%s'.
- title: a short human-readable description of the expense
- date: "YYYY-MM-DD" when the input names a date, otherwise a relative word like "today" or "yesterday". Leave empty if unspecified.
- payment_method: "upi" for electronic/online payments, "cash" for cash. Leave empty if unspecified.

Respond with only the JSON object.`

func systemPrompt(categories []string, fallback string, refDate time.Time) string {
	quoted := make([]string, len(categories))
	for i, c := range categories {
		quoted[i] = "'" + c + "'"
	}
	return fmt.Sprintf(systemPromptTemplate,
		refDate.Format("2006-01-02 (Monday)"),
		strings.Join(quoted, ", "),
		fallback,
	)
}

// JSON Schema for structured output
var expenseSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"amount": {
			"type": "number",
			"description": "The expense amount, always positive"
		},
		"category": {
			"type": "string",
			"description": "The expense category from the allowed set"
		},
		"title": {
			"type": "string",
			"description": "Short description of the expense"
		},
		"date": {
			"type": "string",
			"description": "YYYY-MM-DD, a relative expression like 'yesterday', or empty"
		},
		"payment_method": {
			"type": "string",
			"description": "'upi' or 'cash', or empty if unspecified"
		}
	},
	"required": ["amount", "category", "title", "date", "payment_method"],
	"additionalProperties": false
}`)

package structure

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
)

// Provider is the structuring collaborator: free-form OCR text in, free-form
// model text out. The answer is expected - not guaranteed - to be a JSON
// invoice object; parsing and the raw fallback live here, not in providers.
type Provider interface {
	Structure(ctx context.Context, ocrText string) (string, error)
}

// BuildPrompt wraps the OCR markdown in the field-extraction instruction.
func BuildPrompt(ocrMarkdown string) string {
	var b strings.Builder
	b.WriteString("Here is the OCR text of an invoice in Markdown format.\n")
	b.WriteString("Analyse it and return a strictly valid JSON object with the fields:\n")
	b.WriteString("- invoice_number\n- date\n- due_date\n- seller (name)\n- buyer (name, address)\n")
	b.WriteString("- items (list with description, quantity, unit_price, amount)\n")
	b.WriteString("- subtotal\n- tax\n- total\n- amount_paid\n- terms\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Answer ONLY with raw JSON, no text before or after.\n")
	b.WriteString("- No ```json or ``` fences and no comments.\n")
	b.WriteString("- If a field is missing, use null or [].\n\n")
	b.WriteString("OCR text:\n")
	b.WriteString(ocrMarkdown)
	return b.String()
}

// ExtractJSON pulls the first top-level {...} span out of the model answer,
// tolerating chatter around it. Empty string when there is none.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}

// Parse turns the raw collaborator answer into the tagged result. A
// non-parseable answer becomes the raw fallback - the answer cost tokens and
// latency, it is never discarded.
func Parse(rawAnswer string) *docModel.StructuredResult {
	candidate := ExtractJSON(rawAnswer)
	if candidate == "" {
		candidate = rawAnswer
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return docModel.NewRawFallback(rawAnswer)
	}
	return docModel.NewStructured(fields)
}

package docModel

import "encoding/json"

// StructuredResult is the structuring collaborator's answer. The collaborator
// is expected - not guaranteed - to return a JSON object with invoice fields.
// When its response could not be parsed we keep the raw text instead of
// throwing the (paid) answer away; on the wire that state is the
// {"raw_output": ...} object the rest of the system understands.
type StructuredResult struct {
	Fields    map[string]any
	RawOutput string
}

const rawOutputKey = "raw_output"

func NewStructured(fields map[string]any) *StructuredResult {
	return &StructuredResult{Fields: fields}
}

func NewRawFallback(text string) *StructuredResult {
	return &StructuredResult{RawOutput: text}
}

// IsRawFallback reports whether the collaborator's answer survived only as
// unparsed text. Consumers must handle this branch explicitly.
func (s *StructuredResult) IsRawFallback() bool {
	return s.Fields == nil
}

// Field returns a named value from the structured mapping, nil when absent
// or when the result is a raw fallback.
func (s *StructuredResult) Field(name string) any {
	if s == nil || s.Fields == nil {
		return nil
	}
	return s.Fields[name]
}

func (s StructuredResult) MarshalJSON() ([]byte, error) {
	if s.Fields == nil {
		return json.Marshal(map[string]string{rawOutputKey: s.RawOutput})
	}
	return json.Marshal(s.Fields)
}

func (s *StructuredResult) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) == 1 {
		if raw, ok := m[rawOutputKey].(string); ok {
			s.Fields = nil
			s.RawOutput = raw
			return nil
		}
	}
	s.Fields = m
	s.RawOutput = ""
	return nil
}

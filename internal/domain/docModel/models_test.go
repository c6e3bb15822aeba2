package docModel

import (
	"encoding/json"
	"testing"
)

func TestStem(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"invoice_42.pdf", "invoice_42"},
		{"archive.tar.gz", "archive.tar"},
		{"noextension", "noextension"},
		{"dir/scan.png", "scan"},
	}
	for _, tt := range tests {
		if got := Stem(tt.fileName); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.fileName, got, tt.want)
		}
	}
}

func TestStructuredResult_WireShape(t *testing.T) {
	t.Run("fields marshal as a plain object", func(t *testing.T) {
		data, err := json.Marshal(NewStructured(map[string]any{"total": 100.0}))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `{"total":100}` {
			t.Errorf("got %s", data)
		}
	})

	t.Run("raw fallback survives a roundtrip", func(t *testing.T) {
		data, err := json.Marshal(NewRawFallback("no json here"))
		if err != nil {
			t.Fatal(err)
		}

		var back StructuredResult
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatal(err)
		}
		if !back.IsRawFallback() || back.RawOutput != "no json here" {
			t.Errorf("roundtrip changed the fallback: %+v", back)
		}
	})

	t.Run("an object that happens to have one key stays fields", func(t *testing.T) {
		var result StructuredResult
		if err := json.Unmarshal([]byte(`{"total": 100}`), &result); err != nil {
			t.Fatal(err)
		}
		if result.IsRawFallback() {
			t.Error("single non-raw_output key must not become a fallback")
		}
	})
}

package search

import (
	"sort"
	"strings"

	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
)

// AllTypes is the type filter sentinel that disables type filtering.
const AllTypes = "all"

// Search filters records down to those whose full text contains every
// whitespace-separated token of query as a case-folded substring, then
// applies the optional document-type filter. It is a stable filter: results
// keep the relative order of the input, there is no scoring. A blank query
// matches everything.
//
// Linear scan on purpose - a few thousand single-user documents do not earn
// an inverted index.
func Search(records []docModel.DocumentRecord, query string, typeFilter string) []docModel.DocumentRecord {
	keywords := strings.Fields(strings.ToLower(query))

	results := make([]docModel.DocumentRecord, 0, len(records))
	for _, record := range records {
		if !matchesKeywords(record, keywords) {
			continue
		}
		if !matchesType(record, typeFilter) {
			continue
		}
		results = append(results, record)
	}
	return results
}

func matchesKeywords(record docModel.DocumentRecord, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	text := strings.ToLower(record.FullText)
	for _, k := range keywords {
		if !strings.Contains(text, k) {
			return false
		}
	}
	return true
}

func matchesType(record docModel.DocumentRecord, typeFilter string) bool {
	if typeFilter == "" || typeFilter == AllTypes {
		return true
	}
	return record.DocumentType == typeFilter
}

// DistinctTypes lists every document_type present, sorted, for filter
// dropdowns.
func DistinctTypes(records []docModel.DocumentRecord) []string {
	seen := make(map[string]bool)
	var types []string
	for _, record := range records {
		t := record.DocumentType
		if t == "" {
			t = docModel.DefaultDocumentType
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}

package adapter

import (
	"github.com/akolanti/DocFlowAPI/internal/api"
	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
)

func ToSearchResponse(records []docModel.DocumentRecord) api.SearchResponse {
	rows := make([]api.SearchRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, toSearchRow(record))
	}
	return api.SearchResponse{
		Count:   len(rows),
		Results: rows,
	}
}

func toSearchRow(record docModel.DocumentRecord) api.SearchRow {
	row := api.SearchRow{
		FileName:       record.FileName,
		DocumentType:   record.DocumentType,
		PathFile:       record.PathFile,
		PathStructured: record.PathStructured,
	}
	if total := record.StructuredJSON.Field("total"); total != nil {
		row.Total = total
	}
	return row
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/DocFlowAPI/internal/config"
	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
	"github.com/akolanti/DocFlowAPI/internal/index"
	"github.com/akolanti/DocFlowAPI/internal/search"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

// an MCP stdio server exposing the document index to agents: same linear
// keyword search the HTTP API serves, read-only.

var indexPath string

type searchInput struct {
	Query string `json:"query" jsonschema:"whitespace-separated keywords, all must appear in a document's text"`
	Type  string `json:"type,omitempty" jsonschema:"document type filter, empty or 'all' disables it"`
}

type searchHit struct {
	FileName     string `json:"file_name"`
	DocumentType string `json:"document_type"`
	NumPages     int    `json:"num_pages"`
	Total        any    `json:"total,omitempty"`
}

type searchOutput struct {
	Count   int         `json:"count"`
	Results []searchHit `json:"results"`
}

type getDocumentInput struct {
	FileName string `json:"file_name" jsonschema:"exact file name of an indexed document"`
}

type server struct {
	store *index.Store
}

func main() {
	logger_i.Init()
	logger := logger_i.NewLogger("mcp")

	flag.StringVar(&indexPath, "index-path", config.IndexFilePath, "path of the flat JSON index")
	flag.Parse()

	s := &server{store: index.NewStore(indexPath)}

	impl := &mcp.Implementation{
		Name:    "docflow",
		Version: "1.0.0",
	}
	mcpServer := mcp.NewServer(impl, nil)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "search_documents",
		Description: "Keyword search over the ingested documents",
	}, s.handleSearch)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "get_document",
		Description: "Fetch the full index record of one document, structured fields included",
	}, s.handleGetDocument)

	logger.Info("MCP server listening on stdio", "index", indexPath)
	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Err("MCP server stopped", err)
		os.Exit(1)
	}
}

func (s *server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input searchInput) (*mcp.CallToolResult, searchOutput, error) {
	records, err := s.store.Load()
	if err != nil {
		return nil, searchOutput{}, err
	}

	matches := search.Search(records, input.Query, input.Type)
	output := searchOutput{
		Count:   len(matches),
		Results: make([]searchHit, len(matches)),
	}
	for i, record := range matches {
		output.Results[i] = searchHit{
			FileName:     record.FileName,
			DocumentType: record.DocumentType,
			NumPages:     record.NumPages,
			Total:        record.StructuredJSON.Field("total"),
		}
	}
	return nil, output, nil
}

func (s *server) handleGetDocument(ctx context.Context, _ *mcp.CallToolRequest, input getDocumentInput) (*mcp.CallToolResult, docModel.DocumentRecord, error) {
	record, found, err := s.store.Find(input.FileName)
	if err != nil {
		return nil, docModel.DocumentRecord{}, err
	}
	if !found {
		return nil, docModel.DocumentRecord{}, fmt.Errorf("document %q is not in the index", input.FileName)
	}
	return nil, record, nil
}

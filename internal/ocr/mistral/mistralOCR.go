package mistral

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/akolanti/DocFlowAPI/internal/config"
	"github.com/akolanti/DocFlowAPI/internal/customHttpClient"
	"github.com/akolanti/DocFlowAPI/internal/ocr"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

// Client talks to the hosted Mistral OCR endpoint. The document travels as a
// base64 data URL inside the JSON body, the way the service expects it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

var (
	logger   *logger_i.Logger
	instance *Client
	once     sync.Once
)

func GetMistralOCRClient(apiKey string) ocr.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("ocr_mistral")
		if apiKey == "" {
			logger.Error("Mistral OCR client has no API key")
			return
		}
		instance = &Client{
			httpClient: customHttpClient.NewPooledClient(),
			baseURL:    config.MistralBaseURL,
			apiKey:     apiKey,
			model:      config.MistralOCRModel,
		}
		logger.Info("Mistral OCR client created", "model", instance.model)
	})

	if instance == nil {
		return nil
	}
	return instance
}

type ocrRequest struct {
	Model              string      `json:"model"`
	Document           ocrDocument `json:"document"`
	IncludeImageBase64 bool        `json:"include_image_base64"`
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

func (c *Client) Process(ctx context.Context, content []byte, mimeType string) (ocr.Response, error) {
	body := ocrRequest{
		Model: c.model,
		Document: ocrDocument{
			Type:        "document_url",
			DocumentURL: dataURL(content, mimeType),
		},
	}

	raw, err := c.post(ctx, strings.TrimRight(c.baseURL, "/")+"/ocr", body)
	if err != nil {
		return ocr.Response{}, err
	}

	var response ocr.Response
	if err := json.Unmarshal(raw, &response); err != nil {
		logger.Err("Could not decode OCR response", err)
		return ocr.Response{}, fmt.Errorf("decode ocr response: %w", err)
	}
	logger.Debug("OCR response decoded", "pages", len(response.Pages))
	return response, nil
}

func (c *Client) post(ctx context.Context, url string, body any) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn("Couldn't close the OCR response body", "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading ocr response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ocr status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

func dataURL(content []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(content))
}

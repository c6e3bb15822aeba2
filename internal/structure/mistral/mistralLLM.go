package mistral

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/DocFlowAPI/internal/config"
	"github.com/akolanti/DocFlowAPI/internal/structure"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

// Mistral's chat API speaks the OpenAI wire protocol, so the official
// openai-go client pointed at api.mistral.ai does the job.
type llmClient struct {
	client openai.Client
	model  string
}

var (
	logger   *logger_i.Logger
	instance *llmClient
	once     sync.Once
)

func GetMistralChatClient(apiKey string) structure.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_mistral")
		if apiKey == "" {
			logger.Error("Mistral chat client has no API key")
			return
		}
		instance = &llmClient{
			client: openai.NewClient(
				option.WithAPIKey(apiKey),
				option.WithBaseURL(config.MistralBaseURL),
			),
			model: config.MistralChatModel,
		}
		logger.Info("Mistral chat client created", "model", instance.model)
	})

	if instance == nil {
		return nil
	}
	return instance
}

func (c *llmClient) Structure(ctx context.Context, ocrText string) (string, error) {
	logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(structure.BuildPrompt(ocrText)),
		},
		Temperature: openai.Float(config.ModelTemperature),
	})
	if err != nil {
		logger.Err("Mistral structuring call failed", err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in structuring response")
	}
	return completion.Choices[0].Message.Content, nil
}

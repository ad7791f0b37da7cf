package groq

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/insightqa/insightqa/internal/config"
	"github.com/insightqa/insightqa/internal/rag/llm"
	"github.com/insightqa/insightqa/pkg/logger_i"
)

type llmClient struct {
	client *openai.Client
	model  string
	logger *logger_i.Logger
}

// NewClient builds a Groq-backed provider. Groq speaks the OpenAI chat
// protocol, so the client is the OpenAI one pointed at Groq's base URL.
func NewClient(modelName string, apikey string) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_groq")

	if apikey == "" {
		return nil, &llm.LLMError{Provider: "groq", Err: errors.New("missing GROQ_API_KEY")}
	}

	cfg := openai.DefaultConfig(apikey)
	cfg.BaseURL = config.GroqBaseURL

	logger.Info("Groq client created", "model", modelName)
	return &llmClient{
		client: openai.NewClientWithConfig(cfg),
		model:  modelName,
		logger: logger,
	}, nil
}

func (c *llmClient) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	converted := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		converted = append(converted, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    converted,
		Temperature: config.ModelTemperature,
		MaxTokens:   config.MaxCompletionTokens,
	})
	if err != nil {
		log.Error("Groq chat completion failed", "error", err)
		return "", &llm.LLMError{Provider: "groq", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &llm.LLMError{Provider: "groq", Err: errors.New("empty choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

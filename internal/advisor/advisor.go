package advisor

import (
	"context"
	"fmt"
	"log"

	"ratedash/internal/domain"
	"ratedash/internal/trend"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const advisorTrendDays = 30

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// RateQuerier provides current rate data for the advisor's context.
type RateQuerier interface {
	GetRate(ctx context.Context, from, to string) (float64, error)
}

// TrendQuerier provides trend readouts for the advisor's context.
type TrendQuerier interface {
	Trend(ctx context.Context, from, to string, days int) (trend.Summary, error)
}

// ConversationStore persists and retrieves conversation messages.
type ConversationStore interface {
	AppendMessage(ctx context.Context, chatID int64, role, content string) error
	RecentMessages(ctx context.Context, chatID int64, limit int) ([]domain.ConversationMessage, error)
}

type AdvisorService struct {
	tracer     trace.Tracer
	llm        LLMClient
	rates      RateQuerier
	trends     TrendQuerier
	convStore  ConversationStore
	model      string
	maxHistory int
}

func NewAdvisorService(
	tracer trace.Tracer,
	llm LLMClient,
	rates RateQuerier,
	trends TrendQuerier,
	convStore ConversationStore,
	model string,
	maxHistory int,
) *AdvisorService {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &AdvisorService{
		tracer:     tracer,
		llm:        llm,
		rates:      rates,
		trends:     trends,
		convStore:  convStore,
		model:      model,
		maxHistory: maxHistory,
	}
}

func (s *AdvisorService) Ask(ctx context.Context, chatID int64, userMessage string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.ask")
	defer span.End()
	span.SetAttributes(attribute.Int64("chat_id", chatID))

	// 1. Persist the user message
	if err := s.convStore.AppendMessage(ctx, chatID, "user", userMessage); err != nil {
		log.Printf("failed to store user message: %v", err)
	}

	// 2. Extract mentioned pairs for targeted context
	mentionedPairs := ExtractPairs(userMessage)

	// 3. Gather rate context
	rateContext, err := s.gatherContext(ctx, mentionedPairs)
	if err != nil {
		log.Printf("failed to gather rate context: %v", err)
		rateContext = "Rate data temporarily unavailable."
	}

	// 4. Build system prompt with live data
	systemPrompt := BuildSystemPrompt(rateContext)

	// 5. Load conversation history
	history, err := s.convStore.RecentMessages(ctx, chatID, s.maxHistory)
	if err != nil {
		log.Printf("failed to load conversation history: %v", err)
		history = nil
	}

	// 6. Construct messages array
	messages := s.buildMessages(systemPrompt, history)

	// 7. Call LLM
	reply, err := s.callLLM(ctx, messages)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("advisor unavailable: %w", err)
	}

	// 8. Persist the assistant reply
	if err := s.convStore.AppendMessage(ctx, chatID, "assistant", reply); err != nil {
		log.Printf("failed to store assistant reply: %v", err)
	}

	return reply, nil
}

func (s *AdvisorService) gatherContext(ctx context.Context, pairs []string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.gather-context")
	defer span.End()

	if len(pairs) == 0 {
		pairs = domain.TrackedPairs
	}

	var readouts []PairReadout
	for _, pair := range pairs {
		from, to, err := domain.ParsePair(pair)
		if err != nil {
			continue
		}
		readout := PairReadout{Pair: from + "/" + to}
		rate, err := s.rates.GetRate(ctx, from, to)
		if err != nil {
			continue
		}
		readout.Rate = rate
		if summary, err := s.trends.Trend(ctx, from, to, advisorTrendDays); err == nil {
			readout.Summary = &summary
		}
		readouts = append(readouts, readout)
	}
	if len(readouts) == 0 {
		return "", fmt.Errorf("no rate data available for %v", pairs)
	}

	return FormatRateContext(readouts), nil
}

func (s *AdvisorService) buildMessages(
	systemPrompt string,
	history []domain.ConversationMessage,
) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)

	// System prompt always first
	messages = append(messages, openai.SystemMessage(systemPrompt))

	// Conversation history (already limited by RecentMessages query)
	for _, msg := range history {
		switch msg.Role {
		case "user":
			messages = append(messages, openai.UserMessage(msg.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}

	return messages
}

func (s *AdvisorService) callLLM(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
) (string, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.llm-call")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", s.model),
		attribute.Int("llm.message_count", len(messages)),
	)

	completion, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}

	reply := completion.Choices[0].Message.Content
	span.SetAttributes(attribute.Int("llm.reply_length", len(reply)))
	return reply, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}

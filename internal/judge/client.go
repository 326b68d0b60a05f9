package judge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/what-beats-backend/internal/platform/config"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// LLMClient 是 Client 接口的生产实现。
// 它通过OpenAI兼容的chat completions接口请求外部裁判服务，
// 并用json_schema约束输出，最大限度减少自由文本解析。
type LLMClient struct {
	api     openai.Client
	model   string
	timeout time.Duration
}

// NewLLMClient 根据配置构造裁判客户端。
func NewLLMClient(cfg config.JudgeConfig) (*LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("缺少裁判服务的API Key (JUDGE_APIKEY)")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	api := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(timeout),
	)

	return &LLMClient{
		api:     api,
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Judge 请求裁判裁决"item2是否击败item1"。
// 任何失败都会被兜底：解析失败返回❓默认值，传输失败返回❌默认值。
func (c *LLMClient) Judge(ctx context.Context, item1, item2 string) Judgment {
	safeItem1 := sanitizeForPrompt(item1)
	safeItem2 := sanitizeForPrompt(item2)

	content, err := c.complete(ctx, judgmentSystemPrompt, buildJudgmentPrompt(safeItem1, safeItem2),
		"whatbeats_judgment", judgmentSchema, 0.7, 150)
	if err != nil {
		fmt.Printf("裁判服务请求失败 ('%s' vs '%s'): %v\n", safeItem1, safeItem2, err)
		return defaultTransportFailure
	}

	var judgment Judgment
	if err := extractJSON(content, &judgment); err != nil {
		fmt.Printf("裁判回复解析失败 ('%s' vs '%s'): %v\n", safeItem1, safeItem2, err)
		return defaultParseFailure
	}

	if judgment.Description == "" {
		judgment.Description = "No explanation provided"
	}
	if judgment.Emoji == "" {
		judgment.Emoji = "❓"
	}
	judgment.Emoji = firstRune(judgment.Emoji)
	return judgment
}

// FrequencyBand 请求裁判为一个使用频率区间生成文案。
// 失败时返回通用的🔄默认文案。
func (c *LLMClient) FrequencyBand(ctx context.Context, rangeStart int, rangeEnd *int) BandDescription {
	content, err := c.complete(ctx, bandSystemPrompt, buildBandPrompt(rangeStart, rangeEnd),
		"count_range_description", bandSchema, 0.8, 100)
	if err != nil {
		fmt.Printf("频率区间文案请求失败 (start=%d): %v\n", rangeStart, err)
		return defaultBand
	}

	var band BandDescription
	if err := extractJSON(content, &band); err != nil {
		fmt.Printf("频率区间文案解析失败 (start=%d): %v\n", rangeStart, err)
		return defaultBand
	}

	if band.Description == "" || band.Emoji == "" {
		return defaultBand
	}
	band.Emoji = firstRune(band.Emoji)
	return band
}

// complete 发起一次带json_schema输出约束的chat completions调用，返回原始文本。
func (c *LLMClient) complete(ctx context.Context, systemPrompt, userPrompt, schemaName string, schema map[string]any, temperature float64, maxTokens int64) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.api.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Strict: openai.Bool(true),
					Schema: schema,
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("裁判服务返回了空的choices")
	}
	return completion.Choices[0].Message.Content, nil
}

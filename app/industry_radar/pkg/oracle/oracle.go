// Package oracle 把 LLM 封装为“文本进、文本出”的摘要接口。
//
// 调用失败返回 ORACLE_FAILURE 错误；模型返回空文本不算失败。
package oracle

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
)

// Placeholder 提示词模板中的正文占位符
const Placeholder = "{text}"

// 合并阶段输入的上限，超出时先分组合并
const maxCombineRunes = 100000

// Prompt 含 {text} 占位符的提示词模板
type Prompt string

// Render 用 text 替换占位符
func (p Prompt) Render(text string) string {
	return strings.ReplaceAll(string(p), Placeholder, text)
}

// Oracle 摘要 / 生成接口
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
	MapReduceSummarize(ctx context.Context, chunks []string, mapPrompt, combinePrompt Prompt) (string, error)
}

// generator eino ChatModel 中用到的部分
type generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// ChatOracle 基于 eino ChatModel 的实现，所有调用经过限流器
type ChatOracle struct {
	cm      generator
	limiter *rate.Limiter
}

var _ Oracle = (*ChatOracle)(nil)

// New 按配置创建 OpenAI 兼容的 ChatModel。未配置 API Key 时返回 CredentialMissing
func New(ctx context.Context, cfg *config.Config) (*ChatOracle, error) {
	if !cfg.LLM.Enabled() {
		return nil, failure.CredentialMissing("llm")
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	return NewWithModel(chatModel, NewLimiter(cfg.Concurrency)), nil
}

// NewWithModel 使用已有的模型创建
func NewWithModel(cm generator, limiter *rate.Limiter) *ChatOracle {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &ChatOracle{cm: cm, limiter: limiter}
}

// NewLimiter 按每分钟请求数限流，RPM 不大于 0 时不限流
func NewLimiter(cfg config.ConcurrencyConfig) *rate.Limiter {
	burst := cfg.QPS
	if burst < 1 {
		burst = 1
	}
	if cfg.RPM <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), burst)
}

// Complete 单次调用
func (o *ChatOracle) Complete(ctx context.Context, prompt string) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", failure.Oracle(err, "rate limiter")
	}

	messages := []*schema.Message{
		{Role: schema.User, Content: prompt},
	}
	resp, err := o.cm.Generate(ctx, messages)
	if err != nil {
		return "", failure.Oracle(err, "generate")
	}
	if resp == nil {
		return "", nil
	}
	return strings.TrimSpace(resp.Content), nil
}

// MapReduceSummarize 对每块应用 mapPrompt，再用 combinePrompt 合并各块结果。
// 任一调用失败即整体失败。
func (o *ChatOracle) MapReduceSummarize(ctx context.Context, chunks []string, mapPrompt, combinePrompt Prompt) (string, error) {
	return MapReduce(ctx, o, chunks, mapPrompt, combinePrompt)
}

// MapReduce 基于任意 Oracle 的 map-reduce 摘要
func MapReduce(ctx context.Context, o Oracle, chunks []string, mapPrompt, combinePrompt Prompt) (string, error) {
	if len(chunks) == 0 {
		return "", nil
	}

	// map 阶段按块顺序逐个调用，首个失败即返回
	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		logger.Log.Debugf("map 阶段 %d/%d", i+1, len(chunks))
		out, err := o.Complete(ctx, mapPrompt.Render(chunk))
		if err != nil {
			return "", err
		}
		summaries = append(summaries, out)
	}

	// 合并输入过长时先分组合并
	for len(summaries) > 1 && utf8.RuneCountInString(strings.Join(summaries, "\n\n")) > maxCombineRunes {
		groups := group(summaries, maxCombineRunes)
		if len(groups) == len(summaries) {
			break
		}
		collapsed := make([]string, 0, len(groups))
		for _, grp := range groups {
			out, err := o.Complete(ctx, combinePrompt.Render(strings.Join(grp, "\n\n")))
			if err != nil {
				return "", err
			}
			collapsed = append(collapsed, out)
		}
		summaries = collapsed
	}

	return o.Complete(ctx, combinePrompt.Render(strings.Join(summaries, "\n\n")))
}

// group 按顺序把文本分组，每组总长不超过 limit（单条超长时独占一组）
func group(texts []string, limit int) [][]string {
	var (
		groups  [][]string
		current []string
		total   int
	)
	for _, t := range texts {
		l := utf8.RuneCountInString(t)
		if len(current) > 0 && total+l > limit {
			groups = append(groups, current)
			current, total = nil, 0
		}
		current = append(current, t)
		total += l
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

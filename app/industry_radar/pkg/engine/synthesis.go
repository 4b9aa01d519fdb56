package engine

import (
	"context"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/oracle"
)

const (
	NoWebsiteAnalysis = "No website analysis available."
	NoSocialAnalysis  = "No social media analysis available."
	InsightsErrorText = "Error generating comprehensive insights."
)

// Synthesize 合并两份分析为综合洞察。缺失的分析用占位句代替，调用失败返回固定错误文本
func Synthesize(ctx context.Context, o oracle.Oracle, pd model.ProcessedData) string {
	website, ok := pd.Website()
	if !ok {
		website = NoWebsiteAnalysis
	}
	social, ok := pd.Social()
	if !ok {
		social = NoSocialAnalysis
	}

	logger.Log.Info("生成综合洞察...")
	out, err := o.Complete(ctx, synthesisPrompt(website, social))
	if err != nil {
		logger.Log.Warnf("综合洞察生成失败: %v", err)
		return InsightsErrorText
	}
	return out
}

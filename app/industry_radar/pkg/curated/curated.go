// Package curated 在没有任何搜索 API 可用时返回固定的行业站点列表，供后续直接抓取。
package curated

import (
	"context"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/search"
)

// Sites 行业资讯站点
var Sites = []search.Result{
	{
		Title:   "IIoT World - Industrial IoT News & Articles",
		URL:     "https://iiot-world.com/",
		Content: "Latest news and insights about Industrial IoT, smart manufacturing, and industry 4.0 technologies.",
	},
	{
		Title:   "Manufacturing Tomorrow - Smart Manufacturing and Industry 4.0",
		URL:     "https://www.manufacturingtomorrow.com/",
		Content: "Articles and insights about the future of manufacturing, IIoT adoption, and digital transformation.",
	},
	{
		Title:   "Automation World - Factory Automation",
		URL:     "https://www.automationworld.com/",
		Content: "Coverage of automation technologies in manufacturing and production environments.",
	},
	{
		Title:   "McKinsey & Company - Manufacturing",
		URL:     "https://www.mckinsey.com/industries/advanced-electronics/our-insights",
		Content: "Research and insights on manufacturing industry trends and digital transformation.",
	},
	{
		Title:   "Deloitte Insights - Industry 4.0",
		URL:     "https://www2.deloitte.com/us/en/insights/focus/industry-4-0.html",
		Content: "Research and analysis on the fourth industrial revolution and smart manufacturing.",
	},
	{
		Title:   "PwC - Industrial Manufacturing Trends",
		URL:     "https://www.pwc.com/us/en/industries/industrial-products/industrial-manufacturing.html",
		Content: "Analysis of trends and challenges in the industrial manufacturing sector.",
	},
	{
		Title:   "Industry Week - Technology and IIoT",
		URL:     "https://www.industryweek.com/technology-and-iiot",
		Content: "News and analysis covering IIoT implementation in manufacturing environments.",
	},
	{
		Title:   "Manufacturing.net - Industry 4.0",
		URL:     "https://www.manufacturing.net/industry40",
		Content: "Coverage of Industry 4.0 technologies and their impact on manufacturing.",
	},
	{
		Title:   "IoT World Today - Industrial IoT",
		URL:     "https://www.iotworldtoday.com/industrial/",
		Content: "News and insights about industrial IoT implementations and technologies.",
	},
	{
		Title:   "Gartner - Manufacturing Industry Insights",
		URL:     "https://www.gartner.com/en/industries/manufacturing",
		Content: "Research and analysis on digital transformation in manufacturing.",
	},
}

// Searcher 返回截断到 MaxResults 的固定站点列表，从不失败
type Searcher struct{}

var _ search.Searcher = Searcher{}

// Search implements search.Searcher
func (Searcher) Search(_ context.Context, req *search.Request) (*search.Response, error) {
	n := len(Sites)
	if req != nil && req.MaxResults > 0 && req.MaxResults < n {
		n = req.MaxResults
	}
	results := make([]search.Result, n)
	copy(results, Sites[:n])
	return &search.Response{Results: results}, nil
}

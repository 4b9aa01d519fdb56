package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/model"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/oracle"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/scrape"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/search"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/storage"
)

const insightsText = "## Executive Summary\nManufacturers keep investing.\n## Key Industry Trends\nEdge AI.\n## Critical Challenges\nSkills gap.\n## Innovative Solutions\nDigital twins.\n## Market Outlook\nGrowth."

// fakeOracle 按提示词内容返回固定文本，fail 返回 true 的提示词会失败
type fakeOracle struct {
	mu      sync.Mutex
	prompts []string
	fail    func(prompt string) bool
	mapFail bool
}

func (f *fakeOracle) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.fail != nil && f.fail(prompt) {
		return "", failure.Oracle(errors.New("boom"), "generate")
	}
	switch {
	case strings.Contains(prompt, "[WEBSITE ANALYSIS]"):
		return insightsText, nil
	case strings.Contains(prompt, "Return the title only"):
		return "\n  Smart Factory Outlook 2026  \nsubtitle", nil
	case strings.Contains(prompt, `"Industry Trends" section`):
		return "trends section", nil
	case strings.Contains(prompt, `"Industry Challenges" section`):
		return "challenges section", nil
	case strings.Contains(prompt, `"Solutions & Opportunities" section`):
		return "solutions section", nil
	case strings.Contains(prompt, "executive summary"):
		return "summary section", nil
	case strings.Contains(prompt, "Sentiment towards digital transformation"):
		return "social analysis", nil
	default:
		return "website analysis", nil
	}
}

func (f *fakeOracle) MapReduceSummarize(ctx context.Context, chunks []string, mapPrompt, combinePrompt oracle.Prompt) (string, error) {
	if f.mapFail {
		return "", failure.Oracle(errors.New("map failed"), "map-reduce")
	}
	return oracle.MapReduce(ctx, f, chunks, mapPrompt, combinePrompt)
}

func (f *fakeOracle) count(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.prompts {
		if strings.Contains(p, substr) {
			n++
		}
	}
	return n
}

func today() string { return time.Now().Format(model.DateLayout) }

func assertComplete(t *testing.T, r *model.Report) {
	t.Helper()
	require.NotNil(t, r)
	for name, v := range map[string]string{
		"title": r.Title, "summary": r.Summary, "trends": r.Trends,
		"challenges": r.Challenges, "solutions": r.Solutions, "date": r.Date,
	} {
		assert.NotEmpty(t, v, name)
	}
	assert.NotNil(t, r.Sources)
}

var scrapedA = []model.SourceRecord{{Title: "A", URL: "https://a.com", Content: "body"}}

func TestSplitSections(t *testing.T) {
	s := SplitSections(insightsText)
	assert.Equal(t, "## Executive Summary\nManufacturers keep investing.", s.Summary)
	assert.Equal(t, "## Key Industry Trends\nEdge AI.", s.Trends)
	assert.Equal(t, "## Critical Challenges\nSkills gap.", s.Challenges)
	assert.Equal(t, "## Innovative Solutions\nDigital twins.", s.Solutions)
}

func TestSplitSections_CaseInsensitiveFirstMatchWins(t *testing.T) {
	s := SplitSections("intro\n## TRENDS Ahead\nfirst\n## More trends\nsecond\n## Opportunities\nopp\n## Solutions\nsol")
	assert.Equal(t, "intro", s.Summary)
	assert.Equal(t, "## TRENDS Ahead\nfirst", s.Trends)
	assert.Equal(t, "## Opportunities\nopp", s.Solutions)
	assert.Equal(t, NoChallenges, s.Challenges)
}

func TestSplitSections_NoMatches(t *testing.T) {
	s := SplitSections("just prose without headings")
	assert.Equal(t, "just prose without headings", s.Summary)
	assert.Equal(t, NoTrends, s.Trends)
	assert.Equal(t, NoChallenges, s.Challenges)
	assert.Equal(t, NoSolutions, s.Solutions)
}

func TestSplitSections_HeadingOnly(t *testing.T) {
	s := SplitSections("intro\n## Market Outlook\nnew opportunities and challenges ahead")
	assert.Equal(t, NoChallenges, s.Challenges)
	assert.Equal(t, NoSolutions, s.Solutions)
}

func TestAssemble_OfflineUsesSimplifiedPath(t *testing.T) {
	r, state := NewAssembler(nil).Assemble(context.Background(), model.ProcessedData{}, scrapedA, "iiot")
	assert.Equal(t, StateOffline, state)
	assertComplete(t, r)
	assert.Equal(t, "Manufacturing & IIoT Industry Research Report - "+today(), r.Title)
	assert.Equal(t, NoSummary, r.Summary)
	assert.Equal(t, NoTrends, r.Trends)
	assert.Equal(t, []model.Source{{Title: "A", URL: "https://a.com"}}, r.Sources)
	assert.Equal(t, model.RawData{Keywords: "iiot"}, r.RawData)
}

func TestAssemble_OfflineTrendsFromWebsiteAnalysis(t *testing.T) {
	long := strings.Repeat("é", 1500)
	r, _ := NewAssembler(nil).Assemble(context.Background(), model.ProcessedData{WebsiteAnalysis: model.Text(long)}, nil, "iiot")
	assert.Equal(t, strings.Repeat("é", 1000), r.Trends)
	assert.Equal(t, []model.Source{}, r.Sources)
}

func TestAssemble_OfflineSplitsInsights(t *testing.T) {
	pd := model.ProcessedData{ComprehensiveInsights: model.Text(insightsText)}
	r, _ := NewAssembler(nil).Assemble(context.Background(), pd, nil, "iiot")
	assert.Equal(t, "## Key Industry Trends\nEdge AI.", r.Trends)
	assert.Equal(t, "## Critical Challenges\nSkills gap.", r.Challenges)
	assert.Nil(t, r.RawData.ComprehensiveInsights)
}

func TestAssemble_Full(t *testing.T) {
	o := &fakeOracle{}
	pd := model.ProcessedData{
		WebsiteAnalysis:       model.Text(strings.Repeat("w", 4000)),
		SocialMediaAnalysis:   model.Text("s"),
		ComprehensiveInsights: model.Text(insightsText),
	}
	r, state := NewAssembler(o).Assemble(context.Background(), pd, scrapedA, "iiot")
	assert.Equal(t, StateFull, state)
	assertComplete(t, r)
	assert.Equal(t, "Smart Factory Outlook 2026", r.Title)
	assert.Equal(t, "summary section", r.Summary)
	assert.Equal(t, "trends section", r.Trends)
	assert.Equal(t, "challenges section", r.Challenges)
	assert.Equal(t, "solutions section", r.Solutions)
	assert.Equal(t, []model.Source{{Title: "A", URL: "https://a.com"}}, r.Sources)
	require.NotNil(t, r.RawData.ComprehensiveInsights)
	assert.Equal(t, insightsText, *r.RawData.ComprehensiveInsights)
	assert.Len(t, o.prompts, 5)

	// 趋势段的网站分析输入截断到 3000
	for _, p := range o.prompts {
		if strings.Contains(p, `"Industry Trends" section`) {
			assert.Contains(t, p, strings.Repeat("w", 3000))
			assert.NotContains(t, p, strings.Repeat("w", 3001))
		}
	}
}

func TestAssemble_TrendsFailureDegradesWholeReport(t *testing.T) {
	o := &fakeOracle{fail: func(p string) bool { return strings.Contains(p, `"Industry Trends" section`) }}
	pd := model.ProcessedData{ComprehensiveInsights: model.Text(insightsText)}

	r, state := NewAssembler(o).Assemble(context.Background(), pd, scrapedA, "iiot")
	assert.Equal(t, StateDegraded, state)
	assertComplete(t, r)
	assert.Equal(t, DefaultTitle(today()), r.Title)
	assert.Equal(t, "## Executive Summary\nManufacturers keep investing.", r.Summary)
	assert.Equal(t, "## Critical Challenges\nSkills gap.", r.Challenges)
	assert.Equal(t, model.RawData{Keywords: "iiot"}, r.RawData)
	assert.Equal(t, []model.Source{{Title: "A", URL: "https://a.com"}}, r.Sources)
	assert.Zero(t, o.count(`"Industry Challenges" section`))
}

func TestAssemble_BlankTitleUsesDefault(t *testing.T) {
	o := &fakeOracle{}
	a := NewAssembler(&blankTitleOracle{o})
	r, state := a.Assemble(context.Background(), model.ProcessedData{}, nil, "iiot")
	assert.Equal(t, StateFull, state)
	assert.Equal(t, "Manufacturing & IIoT Industry Research Report - "+today(), r.Title)
}

type blankTitleOracle struct{ *fakeOracle }

func (b *blankTitleOracle) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "Return the title only") {
		return " \n ", nil
	}
	return b.fakeOracle.Complete(ctx, prompt)
}

func TestBuildSources_Defaults(t *testing.T) {
	got := BuildSources([]model.SourceRecord{{}, {Title: "B", URL: "https://b.com"}, {Title: "B", URL: "https://b.com"}})
	assert.Equal(t, []model.Source{
		{Title: "Unknown Source", URL: "#"},
		{Title: "B", URL: "https://b.com"},
		{Title: "B", URL: "https://b.com"},
	}, got)
}

func TestAnalyze_EmptyInputs(t *testing.T) {
	o := &fakeOracle{}
	pd := NewAnalyzer(o).Analyze(context.Background(), nil, nil)
	assert.Nil(t, pd.WebsiteAnalysis)
	assert.Nil(t, pd.SocialMediaAnalysis)
	assert.Empty(t, o.prompts)

	insights := Synthesize(context.Background(), o, pd)
	assert.Equal(t, insightsText, insights)
	require.Len(t, o.prompts, 1)
	assert.Contains(t, o.prompts[0], NoWebsiteAnalysis)
	assert.Contains(t, o.prompts[0], NoSocialAnalysis)

	pd.ComprehensiveInsights = model.Text(insights)
	r, _ := NewAssembler(o).Assemble(context.Background(), pd, nil, "iiot")
	assertComplete(t, r)
}

func TestAnalyze_MapReduceAndSocial(t *testing.T) {
	o := &fakeOracle{}
	pd := NewAnalyzer(o).Analyze(context.Background(), scrapedA, []model.SocialRecord{{SourceLabel: "ABB", Text: "post", URL: "u"}})

	website, ok := pd.Website()
	require.True(t, ok)
	assert.Equal(t, "website analysis", website)
	social, ok := pd.Social()
	require.True(t, ok)
	assert.Equal(t, "social analysis", social)

	// 一个 map 调用 + 一个 combine 调用
	assert.Equal(t, 2, o.count("Market Insights"))
	assert.Equal(t, 1, o.count("Source: ABB\npost"))
}

func TestAnalyze_MapReduceFailureFallsBackToDirect(t *testing.T) {
	o := &fakeOracle{mapFail: true}
	pd := NewAnalyzer(o).Analyze(context.Background(), scrapedA, nil)

	website, ok := pd.Website()
	require.True(t, ok)
	assert.Equal(t, "website analysis", website)
	assert.Equal(t, 1, o.count("Source: A (https://a.com)\n\nbody"))
}

func TestAnalyze_AllFailuresLeaveFieldsAbsent(t *testing.T) {
	o := &fakeOracle{mapFail: true, fail: func(string) bool { return true }}
	pd := NewAnalyzer(o).Analyze(context.Background(), scrapedA, []model.SocialRecord{{Text: "post"}})
	assert.Nil(t, pd.WebsiteAnalysis)
	assert.Nil(t, pd.SocialMediaAnalysis)
}

func TestSynthesize_Failure(t *testing.T) {
	o := &fakeOracle{fail: func(string) bool { return true }}
	assert.Equal(t, InsightsErrorText, Synthesize(context.Background(), o, model.ProcessedData{}))
}

func TestDocuments(t *testing.T) {
	assert.Equal(t, "Source: A (https://a.com)\n\nbody\n\n---\n\n", WebsiteDocument(scrapedA))
	assert.Equal(t, "Source: ABB\npost\n\n---\n\nSource: LinkedIn\nx\n\n---\n\n",
		SocialDocument([]model.SocialRecord{{SourceLabel: "ABB", Text: "post"}, {Text: "x"}}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "智能", truncate("智能制造", 2))
	assert.Equal(t, "", truncate("abc", 0))
}

// ---- Engine.Run ----

type fakeSearcher struct {
	results []search.Result
	req     *search.Request
}

func (f *fakeSearcher) Search(_ context.Context, req *search.Request) (*search.Response, error) {
	f.req = req
	return &search.Response{Results: f.results}, nil
}

type pageFetcher map[string]string

func (p pageFetcher) FetchText(_ context.Context, u string) (string, error) {
	if text, ok := p[u]; ok {
		return text, nil
	}
	return "", errors.New("unreachable")
}

type fakeSocial struct {
	calls   int
	records []model.SocialRecord
}

func (f *fakeSocial) Collect(context.Context, string) ([]model.SocialRecord, error) {
	f.calls++
	return f.records, nil
}

type memStore struct {
	saved []*model.Report
	err   error
}

func (m *memStore) Save(_ context.Context, r *model.Report) (int64, error) {
	if m.err != nil {
		return storage.InvalidID, failure.Persistence(m.err, "insert")
	}
	m.saved = append(m.saved, r)
	r.ID = int64(len(m.saved))
	return r.ID, nil
}

func (m *memStore) List(context.Context, int) ([]*model.Report, error) { return m.saved, nil }

func (m *memStore) GetByID(_ context.Context, id int64) (*model.Report, error) {
	if id < 1 || int(id) > len(m.saved) {
		return nil, storage.ErrReportNotFound
	}
	return m.saved[id-1], nil
}

func (m *memStore) Close() error { return nil }

func newTestEngine(o oracle.Oracle, store storage.Store, soc *fakeSocial) (*Engine, *fakeSearcher) {
	searcher := &fakeSearcher{results: []search.Result{{Title: "A", URL: "https://a.com", Content: "snippet"}}}
	scraper := scrape.NewScraper(pageFetcher{"https://a.com": "IIoT adoption keeps growing."}, config.ScrapeConfig{}).
		WithSleep(func(context.Context, time.Duration) error { return nil })
	deps := Deps{Searcher: searcher, Scraper: scraper, Store: store}
	if soc != nil {
		deps.Social = soc
	}
	if o != nil {
		deps.Oracle = o
	}
	return New(config.Default(), deps), searcher
}

func TestRun_FullPipeline(t *testing.T) {
	o := &fakeOracle{}
	store := &memStore{}
	soc := &fakeSocial{records: []model.SocialRecord{{SourceLabel: "LinkedIn", Text: "post", URL: "u"}}}
	e, searcher := newTestEngine(o, store, soc)

	var steps []int
	res, err := e.Run(context.Background(), RunOptions{
		Keywords:         "IIoT, smart factory",
		IncludeSocial:    true,
		ProgressCallback: func(_ string, p int) { steps = append(steps, p) },
	})
	require.NoError(t, err)
	assert.Equal(t, []int{20, 40, 60, 80, 100}, steps)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, StateFull, res.State)
	assert.Equal(t, int64(1), res.ReportID)

	assert.Equal(t, "IIoT smart factory"+search.QuerySuffix, searcher.req.Query)
	assert.Equal(t, 20, searcher.req.MaxResults)

	require.Len(t, res.Collected.ScrapedContent, 1)
	assert.Equal(t, "https://a.com", res.Collected.ScrapedContent[0].URL)
	assert.Equal(t, 1, soc.calls)
	assert.Contains(t, res.Report.Sources, model.Source{Title: "A", URL: "https://a.com"})
	assert.Equal(t, "Smart Factory Outlook 2026", res.Report.Title)
	assert.Same(t, res.Report, store.saved[0])
}

func TestRun_OfflineNeverFails(t *testing.T) {
	store := &memStore{}
	soc := &fakeSocial{}
	e, _ := newTestEngine(nil, store, soc)

	res, err := e.Run(context.Background(), RunOptions{MaxResults: 100, MaxSites: 1})
	require.NoError(t, err)
	assert.Equal(t, StateOffline, res.State)
	assertComplete(t, res.Report)
	assert.Equal(t, "Manufacturing & IIoT Industry Research Report - "+today(), res.Report.Title)
	assert.Equal(t, model.ProcessedData{}, res.Processed)
	assert.Equal(t, config.DefaultKeywords, res.Report.RawData.Keywords)
	assert.Zero(t, soc.calls)
	assert.Equal(t, []model.Source{{Title: "A", URL: "https://a.com"}}, res.Report.Sources)
}

func TestRun_PersistenceFailureKeepsReport(t *testing.T) {
	e, _ := newTestEngine(nil, &memStore{err: errors.New("disk full")}, nil)

	res, err := e.Run(context.Background(), RunOptions{})
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.ReasonPersistence))
	require.NotNil(t, res)
	assert.Equal(t, storage.InvalidID, res.ReportID)
	assertComplete(t, res.Report)
}

func TestRun_TrendsFailureDegrades(t *testing.T) {
	o := &fakeOracle{fail: func(p string) bool { return strings.Contains(p, `"Industry Trends" section`) }}
	e, _ := newTestEngine(o, &memStore{}, nil)

	res, err := e.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, StateDegraded, res.State)
	assert.Equal(t, DefaultTitle(today()), res.Report.Title)
	assert.Equal(t, "## Key Industry Trends\nEdge AI.", res.Report.Trends)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "full", StateFull.String())
	assert.Equal(t, "degraded", StateDegraded.String())
	assert.Equal(t, "offline", StateOffline.String())
}

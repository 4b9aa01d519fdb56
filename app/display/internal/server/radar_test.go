package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iWorld-y/industry_radar/app/display/internal/conf"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
)

func TestRadarConfig_Nil(t *testing.T) {
	assert.Equal(t, config.Default(), RadarConfig(nil))
}

func TestRadarConfig_Overlay(t *testing.T) {
	disabled := false
	cfg := RadarConfig(&conf.Radar{
		Llm:      &conf.LLM{ApiKey: "k", Model: "gpt-4o-mini"},
		Search:   &conf.Search{MaxResults: 30, Searxng: &conf.SearXNG{BaseUrl: "http://searx"}},
		Scrape:   &conf.Scrape{MaxSites: 5},
		Social:   &conf.Social{Enabled: &disabled, Linkedin: &conf.LinkedIn{AccessToken: "tok"}},
		Keywords: "robotics",
		Db:       &conf.DB{Driver: "pgx", Dsn: "postgres://db"},
	})

	assert.Equal(t, "k", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, config.Default().LLM.BaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, 30, cfg.Search.MaxResults)
	assert.Equal(t, "http://searx", cfg.Search.SearXNG.BaseURL)
	assert.Equal(t, 30, cfg.Search.SearXNG.Timeout)
	assert.Equal(t, 5, cfg.Scrape.MaxSites)
	assert.Equal(t, 1000, cfg.Scrape.MinDelayMs)
	assert.False(t, cfg.Social.Enabled)
	assert.Equal(t, "tok", cfg.Social.LinkedIn.AccessToken)
	assert.Equal(t, "robotics", cfg.Research.Keywords)
	assert.Equal(t, "pgx", cfg.DB.Driver)
	assert.Equal(t, "postgres://db", cfg.DB.Source())
}

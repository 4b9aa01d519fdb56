package engine

import "strings"

const (
	NoSummary    = "Research summary not available due to API limitations."
	NoTrends     = "Trend analysis not available."
	NoChallenges = "Challenge analysis not available."
	NoSolutions  = "Solutions analysis not available."
)

const sectionMarker = "\n## "

// Sections 从综合洞察中拆出的报告正文
type Sections struct {
	Summary    string
	Trends     string
	Challenges string
	Solutions  string
}

// SplitSections 按 "## " 二级标题切分综合洞察。
//
// 第一段为摘要；其余各段按标题（首行）不区分大小写匹配
// trend > challenge > solution|opportunity，每类只取第一个匹配段，其余丢弃。
// 摘要为空或没有匹配段的类别使用占位文本。
func SplitSections(insights string) Sections {
	parts := strings.Split(insights, sectionMarker)

	s := Sections{Summary: parts[0]}
	for _, part := range parts[1:] {
		heading := strings.ToLower(firstLine(part))
		section := "## " + part

		switch {
		case strings.Contains(heading, "trend"):
			if s.Trends == "" {
				s.Trends = section
			}
		case strings.Contains(heading, "challenge"):
			if s.Challenges == "" {
				s.Challenges = section
			}
		case strings.Contains(heading, "solution"), strings.Contains(heading, "opportunit"):
			if s.Solutions == "" {
				s.Solutions = section
			}
		}
	}

	if strings.TrimSpace(s.Summary) == "" {
		s.Summary = NoSummary
	}
	if s.Trends == "" {
		s.Trends = NoTrends
	}
	if s.Challenges == "" {
		s.Challenges = NoChallenges
	}
	if s.Solutions == "" {
		s.Solutions = NoSolutions
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

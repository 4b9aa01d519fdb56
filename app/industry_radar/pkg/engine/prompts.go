package engine

import (
	"fmt"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/oracle"
)

// websiteAnalysisPrompt 网站内容分析，map / combine / 直接调用共用
const websiteAnalysisPrompt oracle.Prompt = `You are a domain expert in the manufacturing industry and Industrial IoT (IIoT).
Read the following material collected from manufacturing and IIoT industry websites and extract the key information:

[CONTENT]
{text}
[END CONTENT]

Write a structured analysis with these four sections:
1. Main Industry Trends: current trends in manufacturing and IIoT
2. Industry Challenges: the major challenges manufacturers face
3. Emerging Solutions: technology solutions that address these challenges
4. Market Insights: market dynamics and the outlook ahead

Stay strictly within manufacturing and industrial IoT applications. Exclude consumer IoT.`

// socialAnalysisPrompt 社交媒体内容分析
const socialAnalysisPrompt oracle.Prompt = `You are a manufacturing industry expert with a focus on Industrial IoT (IIoT).
Analyze the following social media posts from manufacturing companies and industry professionals:

[CONTENT]
{text}
[END CONTENT]

Identify:
1. Common topics and themes in the industry conversation
2. Current concerns or challenges professionals mention
3. Emerging technologies or solutions under discussion
4. Sentiment towards digital transformation and IIoT adoption

Answer in a clear, structured format.`

func synthesisPrompt(website, social string) string {
	return fmt.Sprintf(`You are an analyst covering the Manufacturing and Industrial IoT (IIoT) sector.
You have already analyzed industry websites and social media.

Your analysis of industry websites:
[WEBSITE ANALYSIS]
%s
[END WEBSITE ANALYSIS]

Your analysis of social media content:
[SOCIAL MEDIA ANALYSIS]
%s
[END SOCIAL MEDIA ANALYSIS]

Combine everything into one analysis of the manufacturing and IIoT sector, using markdown level-two headings ("## ") for exactly these sections, in this order:

## Executive Summary
A short overview of where the manufacturing/IIoT industry stands today.

## Key Industry Trends
The trends shaping the industry most strongly right now.

## Critical Challenges
The main obstacles and pain points manufacturers face.

## Innovative Solutions
How technology, IIoT in particular, is addressing those challenges.

## Market Outlook
What lies ahead for manufacturing and IIoT.

## Strategic Recommendations
Concrete approaches manufacturers can take in the current landscape.

Be specific and actionable for industry professionals, and tie each challenge to the IIoT solutions that address it.`, website, social)
}

func titlePrompt(date, keywords string) string {
	return fmt.Sprintf(`Write a professional, specific title for a Manufacturing/IIoT industry research report dated %s.
The research covered these keywords: %s.
Return the title only, on a single line, with no extra text or formatting.`, date, keywords)
}

func summaryPrompt(keywords, insights string) string {
	return fmt.Sprintf(`Write the executive summary of a Manufacturing/IIoT industry research report.

Research keywords: %s

Use the following consolidated insights:
%s

Keep it concise but informative (about 300-400 words). Cover the key findings, the major trends, the challenges and the solutions in manufacturing and IIoT, written for industry executives and decision-makers.`, keywords, insights)
}

func trendsPrompt(website, insights string) string {
	return fmt.Sprintf(`Research data on the Manufacturing/IIoT industry:

%s

%s

Write the "Industry Trends" section of a research report.
Identify and analyze 5-7 major trends shaping manufacturing and IIoT today. For each trend give:
1. A clear description of the trend
2. Evidence of its significance
3. How it affects manufacturers
4. Early adopters or notable examples

Format it as a well-structured markdown section with headers, bullet points and emphasis where useful.`, website, insights)
}

func challengesPrompt(website, social, insights string) string {
	return fmt.Sprintf(`Research data on the Manufacturing/IIoT industry:

%s

%s

%s

Write the "Industry Challenges" section of a research report.
Identify and analyze 5-7 critical challenges manufacturers face in digital transformation and IIoT. For each challenge give:
1. A clear description of the challenge
2. Why it matters
3. Which manufacturing segments are hit hardest
4. The likely impact if it is not addressed

Format it as a well-structured markdown section with headers, bullet points and emphasis where useful.`, website, social, insights)
}

func solutionsPrompt(insights, website string) string {
	return fmt.Sprintf(`Research data on the Manufacturing/IIoT industry:

%s

%s

Write the "Solutions & Opportunities" section of a research report.
Identify and analyze 5-7 promising technology solutions and opportunities for the challenges in manufacturing/IIoT. For each one give:
1. A clear description of the solution
2. The challenge(s) it addresses
3. Benefits and potential ROI
4. Implementation considerations
5. Successful implementations, where known

Format it as a well-structured markdown section with headers, bullet points and emphasis where useful.`, insights, website)
}

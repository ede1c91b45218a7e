// Package agent runs the LLM analyst sequence over an assembled report
// bundle. Each agent is a role prompt plus a view of the bundle; the
// supervisor runs them in order and stitches their sections into the
// final written analysis.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stockscout/stockscout/internal/llm"
	"github.com/stockscout/stockscout/internal/report"
	"github.com/stockscout/stockscout/pkg/models"
)

// Agent is one specialist analyst in the sequence.
type Agent struct {
	name         string
	role         string
	systemPrompt string

	// buildTask renders the user prompt from the bundle and the sections
	// written by earlier agents.
	buildTask func(b *models.ReportBundle, prior []Result) string
}

// Name returns the agent's identifier.
func (a *Agent) Name() string { return a.name }

// Role returns the agent's human-readable role.
func (a *Agent) Role() string { return a.role }

// Result is one agent's written section.
type Result struct {
	AgentName string        `json:"agent_name"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	Tokens    int           `json:"tokens"`
	Duration  time.Duration `json:"duration"`
}

// Run executes the agent against the bundle using the given client.
func (a *Agent) Run(ctx context.Context, client *llm.Client, b *models.ReportBundle, prior []Result) (Result, error) {
	start := time.Now()
	resp, err := client.Chat(ctx, []llm.Message{
		llm.SystemMessage(a.systemPrompt),
		llm.UserMessage(a.buildTask(b, prior)),
	})
	if err != nil {
		return Result{AgentName: a.name, Role: a.role, Duration: time.Since(start)},
			fmt.Errorf("agent %s: %w", a.name, err)
	}
	return Result{
		AgentName: a.name,
		Role:      a.role,
		Content:   strings.TrimSpace(resp.Content),
		Tokens:    resp.Usage.TotalTokens,
		Duration:  time.Since(start),
	}, nil
}

// bundleContext renders the data every agent sees: the deterministic
// Markdown report of the bundle.
func bundleContext(b *models.ReportBundle) string {
	return report.Markdown(b)
}

// priorSections renders earlier agents' output for the downstream agents.
func priorSections(prior []Result) string {
	if len(prior) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nAnalysis written so far by the other analysts:\n")
	for _, r := range prior {
		fmt.Fprintf(&sb, "\n### %s\n%s\n", r.Role, r.Content)
	}
	return sb.String()
}

// NewTechnicalAgent analyzes indicators and price action.
func NewTechnicalAgent() *Agent {
	return &Agent{
		name: "technical_analyst",
		role: "Technical Analysis",
		systemPrompt: "You are a technical analyst. You interpret moving averages, RSI, " +
			"MACD, Bollinger Bands, and stochastic readings. Write a concise assessment " +
			"of the current price action and momentum. Note which indicators are not " +
			"available and do not invent values. Use Markdown, no top-level heading.",
		buildTask: func(b *models.ReportBundle, prior []Result) string {
			return "Analyze the technical picture for " + b.Symbol + " from this data:\n\n" +
				bundleContext(b)
		},
	}
}

// NewFundamentalAgent analyzes valuation and financial health.
func NewFundamentalAgent() *Agent {
	return &Agent{
		name: "fundamental_analyst",
		role: "Fundamental Analysis",
		systemPrompt: "You are a fundamental analyst. You interpret valuation multiples, " +
			"margins, growth rates, balance-sheet strength, and dividends. Write a concise " +
			"assessment of the company's financial quality and valuation. Treat N/A fields " +
			"as unknown, never as zero. Use Markdown, no top-level heading.",
		buildTask: func(b *models.ReportBundle, prior []Result) string {
			return "Analyze the fundamentals of " + companyLabel(b) + " from this data:\n\n" +
				bundleContext(b)
		},
	}
}

// NewNewsAgent summarizes news flow and sentiment.
func NewNewsAgent() *Agent {
	return &Agent{
		name: "news_analyst",
		role: "News & Sentiment",
		systemPrompt: "You are a market news analyst. Summarize the recent news flow for " +
			"the company, the overall sentiment balance, and any items an investor should " +
			"watch. If there is no news, say so briefly. Use Markdown, no top-level heading.",
		buildTask: func(b *models.ReportBundle, prior []Result) string {
			return "Summarize the news situation for " + companyLabel(b) + ":\n\n" +
				bundleContext(b)
		},
	}
}

// NewAdvisorAgent synthesizes the prior sections into a recommendation.
func NewAdvisorAgent() *Agent {
	return &Agent{
		name: "investment_advisor",
		role: "Investment Assessment",
		systemPrompt: "You are an investment advisor synthesizing the work of a technical " +
			"analyst, a fundamental analyst, and a news analyst. Weigh their findings and " +
			"the mechanical trading signals, state an overall stance (bullish, bearish, or " +
			"neutral) with key risks, and keep it under 300 words. This is research " +
			"commentary, not personalized financial advice, and should say so in one " +
			"closing sentence. Use Markdown, no top-level heading.",
		buildTask: func(b *models.ReportBundle, prior []Result) string {
			return "Form an overall assessment of " + companyLabel(b) + "." +
				priorSections(prior) + "\n\nUnderlying data:\n\n" + bundleContext(b)
		},
	}
}

// DefaultSequence is the standard analyst ordering.
func DefaultSequence() []*Agent {
	return []*Agent{
		NewTechnicalAgent(),
		NewFundamentalAgent(),
		NewNewsAgent(),
		NewAdvisorAgent(),
	}
}

func companyLabel(b *models.ReportBundle) string {
	if b.CompanyName != "" {
		return fmt.Sprintf("%s (%s)", b.CompanyName, b.Symbol)
	}
	return b.Symbol
}

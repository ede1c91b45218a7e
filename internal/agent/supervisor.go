package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockscout/stockscout/internal/llm"
	"github.com/stockscout/stockscout/pkg/models"
)

// Status is a progress event emitted while the analyst sequence runs.
type Status struct {
	Agent   string    `json:"agent"`
	Role    string    `json:"role"`
	State   string    `json:"state"` // "started", "completed", "failed"
	Message string    `json:"message,omitempty"`
	Time    time.Time `json:"time"`
}

// StatusFunc receives progress events. It may be nil.
type StatusFunc func(Status)

// Analysis is the combined written output of the analyst sequence.
type Analysis struct {
	Sections    []Result  `json:"sections"`
	Markdown    string    `json:"markdown"`
	TotalTokens int       `json:"total_tokens"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Supervisor runs the analyst sequence over a report bundle.
type Supervisor struct {
	client *llm.Client
	agents []*Agent
	log    zerolog.Logger
}

// NewSupervisor builds a supervisor over the default analyst sequence.
func NewSupervisor(client *llm.Client, log zerolog.Logger) *Supervisor {
	return &Supervisor{
		client: client,
		agents: DefaultSequence(),
		log:    log.With().Str("component", "supervisor").Logger(),
	}
}

// WithAgents replaces the analyst sequence. Used by tests and callers that
// want a subset of the analysts.
func (s *Supervisor) WithAgents(agents []*Agent) *Supervisor {
	s.agents = agents
	return s
}

// Available reports whether an LLM backend is configured at all.
func (s *Supervisor) Available() bool {
	return s.client != nil && s.client.Available()
}

// Run executes the agents in order, feeding each one the sections written
// before it. A failing agent is reported through status and skipped; the
// survivors still produce an analysis. Run fails only when no LLM backend
// is configured or the context ends.
func (s *Supervisor) Run(ctx context.Context, b *models.ReportBundle, status StatusFunc) (*Analysis, error) {
	if !s.Available() {
		return nil, llm.ErrNoProviders
	}
	emit := func(st Status) {
		st.Time = time.Now()
		if status != nil {
			status(st)
		}
	}

	analysis := &Analysis{GeneratedAt: time.Now()}
	for _, a := range s.agents {
		if ctx.Err() != nil {
			return analysis, ctx.Err()
		}
		emit(Status{Agent: a.Name(), Role: a.Role(), State: "started"})
		s.log.Info().Str("agent", a.Name()).Msg("running agent")

		result, err := a.Run(ctx, s.client, b, analysis.Sections)
		if err != nil {
			s.log.Warn().Err(err).Str("agent", a.Name()).Msg("agent failed")
			emit(Status{Agent: a.Name(), Role: a.Role(), State: "failed", Message: err.Error()})
			continue
		}

		analysis.Sections = append(analysis.Sections, result)
		analysis.TotalTokens += result.Tokens
		emit(Status{Agent: a.Name(), Role: a.Role(), State: "completed"})
	}

	analysis.Markdown = s.assemble(b, analysis.Sections)
	return analysis, nil
}

// assemble joins the written sections under role headings.
func (s *Supervisor) assemble(b *models.ReportBundle, sections []Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# AI Analysis: %s\n", companyLabel(b))
	for _, r := range sections {
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", r.Role, r.Content)
	}
	return sb.String()
}

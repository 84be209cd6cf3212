// Package coach turns a study report into personalized tips using a
// language model, falling back to the report's own recommendations.
package coach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/llm"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/report"
)

// ErrNoReport is returned when there is no history to advise on.
var ErrNoReport = errors.New("no study history yet")

// Advice sources.
const (
	SourceCoach   = "coach"
	SourceBuiltin = "builtin"
)

// Tip is one suggestion.
type Tip struct {
	Category quiz.Category `json:"category"`
	Tip      string        `json:"tip"`
	Minutes  int           `json:"minutes"`
}

// Advice is what the coach returns.
type Advice struct {
	Summary     string    `json:"summary"`
	Tips        []Tip     `json:"tips"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Config holds generation limits.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	MaxTips     int
}

// DefaultConfig returns the limits used when none are configured.
func DefaultConfig() Config {
	return Config{MaxTokens: 1024, Temperature: 0.4, Timeout: 30 * time.Second, MaxTips: 4}
}

// Service produces Advice.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

// New creates a Service. A nil provider always yields built-in advice.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxTips <= 0 {
		cfg.MaxTips = DefaultConfig().MaxTips
	}
	return &Service{provider: provider, cfg: cfg, log: log, now: time.Now}
}

// Enabled reports whether a model is configured.
func (s *Service) Enabled() bool { return s.provider != nil }

// Advise returns tips for r. Model failures are logged and answered with
// built-in advice, so the only error is ErrNoReport.
func (s *Service) Advise(ctx context.Context, r *report.Report) (*Advice, error) {
	if r == nil {
		return nil, ErrNoReport
	}
	if s.provider == nil {
		return s.builtin(r), nil
	}

	advice, err := s.generate(ctx, r)
	if err != nil {
		s.log.Warn("coach unavailable, using built-in advice", zap.Error(err))
		return s.builtin(r), nil
	}
	return advice, nil
}

type adviceOutput struct {
	Summary string `json:"summary"`
	Tips    []Tip  `json:"tips"`
}

func (s *Service) generate(ctx context.Context, r *report.Report) (*Advice, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, "coach")

	resp, err := s.provider.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(r, s.cfg.MaxTips),
		Schema:      AdviceSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate advice: %w", err)
	}

	var out adviceOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode advice: %w", err)
	}

	tips := make([]Tip, 0, len(out.Tips))
	for _, t := range out.Tips {
		if !t.Category.Valid() || t.Tip == "" {
			continue
		}
		tips = append(tips, t)
		if len(tips) == s.cfg.MaxTips {
			break
		}
	}
	if len(tips) == 0 {
		return nil, errors.New("model returned no usable tips")
	}

	return &Advice{
		Summary:     out.Summary,
		Tips:        tips,
		Source:      SourceCoach,
		GeneratedAt: s.now(),
	}, nil
}

func (s *Service) builtin(r *report.Report) *Advice {
	a := &Advice{
		Summary:     fmt.Sprintf("You are at %s level with %.0f%% average accuracy.", r.Overall.Level, r.Overall.AverageAccuracy),
		Source:      SourceBuiltin,
		GeneratedAt: s.now(),
	}
	for _, rec := range r.Recommendations {
		a.Tips = append(a.Tips, Tip{
			Category: rec.Category,
			Tip:      rec.Suggestion,
			Minutes:  parseMinutes(rec.TimeRecommended),
		})
		if len(a.Tips) == s.cfg.MaxTips {
			break
		}
	}
	return a
}

// parseMinutes reads the leading number of "20 minutes daily".
func parseMinutes(s string) int {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0
	}
	return n
}

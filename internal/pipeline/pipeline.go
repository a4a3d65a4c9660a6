package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/stylometer/internal/llm"
	"github.com/ppiankov/stylometer/internal/model"
	"github.com/ppiankov/stylometer/internal/rewrite"
	"github.com/ppiankov/stylometer/internal/score"
	"github.com/ppiankov/stylometer/internal/signal"
	"github.com/ppiankov/stylometer/internal/text"
)

// Recorder receives per-operation measurements. metrics.Metrics implements it.
type Recorder interface {
	ObserveOperation(op model.Operation, source string, fallback bool, elapsed time.Duration)
	ObserveProviderFailure(provider string, op model.Operation, kind string)
}

// Limiter gates provider calls per provider name. worker.Limiter implements it.
type Limiter interface {
	Allow(key string) bool
}

// Pipeline runs the score, humanize and remove-phrasing operations.
// Each request consults the provider at most once and falls back to the
// local heuristics on any failure; only invalid input is an error.
type Pipeline struct {
	provider  llm.Provider // nil when generation is disabled
	limiter   Limiter
	extractor *signal.Extractor
	scorer    *score.Scorer
	rewriter  *rewrite.Rewriter
	rnd       model.Rand
	timeout   time.Duration
	logger    *zap.Logger
	recorder  Recorder
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithProvider sets the generative text provider. nil disables it.
func WithProvider(p llm.Provider) Option {
	return func(pl *Pipeline) { pl.provider = p }
}

// WithLimiter rate-limits provider calls
func WithLimiter(l Limiter) Option {
	return func(pl *Pipeline) { pl.limiter = l }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(pl *Pipeline) {
		if l != nil {
			pl.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(pl *Pipeline) { pl.recorder = r }
}

// WithTimeout bounds each provider call
func WithTimeout(d time.Duration) Option {
	return func(pl *Pipeline) {
		if d > 0 {
			pl.timeout = d
		}
	}
}

// WithRand replaces the random source behind jitter and rewrite choices
func WithRand(r model.Rand) Option {
	return func(pl *Pipeline) { pl.rnd = r }
}

// New creates a pipeline from configuration
func New(cfg model.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		timeout: time.Duration(cfg.LLM.Timeout) * time.Second,
		logger:  zap.NewNop(),
		rnd:     model.GlobalRand,
	}
	if p.timeout <= 0 {
		p.timeout = 20 * time.Second
	}
	for _, opt := range opts {
		opt(p)
	}

	p.extractor = signal.NewExtractor(cfg.Scoring.ExtendedNGrams)
	p.scorer = score.NewScorer(cfg.Scoring, p.rnd)
	p.rewriter = rewrite.NewRewriter(cfg.Rewrite, p.rnd)

	return p
}

// ProviderName returns the configured provider name, or "" when disabled
func (p *Pipeline) ProviderName() string {
	if p.provider == nil {
		return ""
	}
	return p.provider.Name()
}

// Score estimates the probability that text was machine-generated
func (p *Pipeline) Score(ctx context.Context, input string) (*model.Detection, error) {
	if err := model.ValidateText(input); err != nil {
		return nil, err
	}
	start := time.Now()

	var verdict llm.Verdict
	result := p.consult(ctx, model.OperationScore, llm.DetectRequest(input), func(raw string) bool {
		v, ok := llm.ParseVerdict(raw)
		verdict = v
		return ok
	})

	if result.OK {
		prob := clampProbability(verdict.Probability)
		detection := &model.Detection{
			Score: model.Score{
				AIProbability: prob,
				Percent:       model.PercentOf(prob),
				Explanation:   verdict.Explanation,
			},
			Source: p.provider.Name(),
		}
		p.observe(model.OperationScore, detection.Source, false, start)
		return detection, nil
	}

	// LocalFallback
	tokens := text.Tokenize(input)
	features := p.extractor.Extract(tokens, input)
	detection := &model.Detection{
		Score:    p.scorer.Compose(features),
		Source:   model.SourceLocal,
		Fallback: true,
		Note:     result.Reason,
		Features: &features,
	}
	p.observe(model.OperationScore, model.SourceLocal, true, start)
	return detection, nil
}

// Humanize rewrites text to reduce machine-style signals
func (p *Pipeline) Humanize(ctx context.Context, input string, intensity model.Intensity) (*model.Rewrite, error) {
	if err := model.ValidateText(input); err != nil {
		return nil, err
	}
	if intensity == "" {
		intensity = model.IntensityLight
	}

	return p.rewrite(ctx, model.OperationHumanize, intensity, llm.HumanizeRequest(input, intensity), func() string {
		return p.rewriter.Rewrite(input, intensity)
	}), nil
}

// RemovePhrasing strips formulaic connectors and filler from text
func (p *Pipeline) RemovePhrasing(ctx context.Context, input string) (*model.Rewrite, error) {
	if err := model.ValidateText(input); err != nil {
		return nil, err
	}

	return p.rewrite(ctx, model.OperationRemove, "", llm.RemovePhrasingRequest(input), func() string {
		return p.rewriter.RemovePhrasing(input)
	}), nil
}

func (p *Pipeline) rewrite(ctx context.Context, op model.Operation, intensity model.Intensity, req llm.GenerateRequest, local func() string) *model.Rewrite {
	start := time.Now()

	var cleaned string
	result := p.consult(ctx, op, req, func(raw string) bool {
		c, ok := llm.CleanRewrite(raw)
		cleaned = c
		return ok
	})

	out := &model.Rewrite{Operation: op, Intensity: intensity}
	if result.OK {
		out.Text = cleaned
		out.Source = p.provider.Name()
	} else {
		// LocalFallback
		out.Text = local()
		out.Source = model.SourceLocal
		out.Fallback = true
		out.Note = result.Reason
	}

	p.observe(op, out.Source, out.Fallback, start)
	return out
}

func (p *Pipeline) observe(op model.Operation, source string, fallback bool, start time.Time) {
	if p.recorder != nil {
		p.recorder.ObserveOperation(op, source, fallback, time.Since(start))
	}
}

func clampProbability(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func fallbackNote(provider, reason string) string {
	return fmt.Sprintf("%s unavailable (%s): local heuristics used", provider, reason)
}

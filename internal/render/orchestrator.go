package render

import (
	"context"
	"log/slog"
	"time"

	"github.com/Zachkp/folio/internal/content"
)

// State is the lifecycle position of an Orchestrator.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loader fetches the content document.
type Loader interface {
	Load(ctx context.Context, source string) (*content.Document, error)
}

// SectionResult is the outcome of one section renderer. Err is nil when the
// section was rendered.
type SectionResult struct {
	Kind Kind
	Err  error
}

// Report describes one completed run.
type Report struct {
	Source   string
	State    State
	Err      error
	Sections []SectionResult
	Started  time.Time
	Duration time.Duration
}

// Rendered lists the sections that were mounted.
func (r Report) Rendered() []Kind {
	var out []Kind
	for _, s := range r.Sections {
		if s.Err == nil {
			out = append(out, s.Kind)
		}
	}
	return out
}

// Skipped lists the sections that were not mounted, with their reason.
func (r Report) Skipped() []SectionResult {
	var out []SectionResult
	for _, s := range r.Sections {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// Orchestrator drives a single page load: load once, then render every
// section. It is not reusable.
type Orchestrator struct {
	loader Loader
	logger *slog.Logger
	state  State
	doc    *content.Document
}

func New(loader Loader, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{loader: loader, logger: logger}
}

func (o *Orchestrator) State() State { return o.state }

// Document returns the loaded document, nil unless the run reached Ready.
func (o *Orchestrator) Document() *content.Document { return o.doc }

// Run loads source and renders every section into host.
func (o *Orchestrator) Run(ctx context.Context, source string, host Host) Report {
	rep := Report{Source: source, Started: time.Now()}

	if o.state != Idle {
		rep.State = Failed
		rep.Err = ErrSpent
		rep.Duration = time.Since(rep.Started)
		return rep
	}

	o.state = Loading
	o.logger.Debug("loading content", "source", source)

	doc, err := o.loader.Load(ctx, source)
	if err == nil && doc == nil {
		err = &content.LoadError{Source: source, Err: content.ErrInvalidDocument}
	}
	if err != nil {
		o.state = Failed
		rep.State = Failed
		rep.Err = err
		rep.Duration = time.Since(rep.Started)
		o.logger.Error("content unavailable, nothing rendered", "source", source, "error", err)
		return rep
	}

	o.doc = doc
	o.state = Ready
	rep.State = Ready

	rules := NewRules(doc.Styling)
	for _, sec := range sections {
		err := sec.render(rules, doc, host)
		if err != nil {
			o.logger.Warn("section skipped", "section", string(sec.kind), "error", err)
		}
		rep.Sections = append(rep.Sections, SectionResult{Kind: sec.kind, Err: err})
	}

	rep.Duration = time.Since(rep.Started)
	o.logger.Info("content rendered",
		"source", source,
		"rendered", len(rep.Rendered()),
		"skipped", len(rep.Skipped()),
		"duration", rep.Duration)
	return rep
}

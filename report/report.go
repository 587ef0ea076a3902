// Package report implements the compiler's diagnostic model: structured,
// data-first records with severity, a stable machine-readable code, source
// annotations, hints, and related locations. No pass in this module ever
// prints a diagnostic; printing and pretty-rendering belong to the
// out-of-scope driver (see spec.md §1).
package report

import (
	"fmt"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/emberlang/ember/source"
)

// Level is a diagnostic's severity.
type Level int8

const (
	// Info is a diagnostic the compiler wants to surface but that never
	// affects success.
	Info Level = 1 + iota
	// Warning is a diagnostic that may be promoted to an error in strict
	// mode (see Report.Promote).
	Warning
	// Error is a diagnostic that makes the overall compile unsuccessful.
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Related is a secondary source location attached to a Diagnostic, e.g.
// "previous declaration was here".
type Related struct {
	Span    source.Span
	Message string
}

// Diagnostic is a single structured diagnostic record, matching spec.md §3
// "Diagnostics" and the code taxonomy in §6.3.
type Diagnostic struct {
	Level   Level
	Code    string
	Message string
	Span    source.Span

	// Structured is a tagged, JSON-marshalable payload specific to the
	// diagnostic's Code, e.g. {kind: "non_exhaustive_match", missing_patterns: [...]}.
	Structured any

	Hints   []string
	Related []Related

	// IsICE marks a diagnostic synthesized from a recovered panic (an
	// "internal compiler error") rather than an ordinary pass failure; see
	// Report.CatchICE.
	IsICE bool

	// emitOrder records the order in which this diagnostic was appended to
	// its Report, used as a tie-breaker so that diagnostics with identical
	// spans retain stable, pass-emission order (spec.md §5).
	emitOrder int
}

// Option configures a Diagnostic at construction time.
type Option func(*Diagnostic)

// At attaches the diagnostic's primary source span.
func At(span source.Span) Option {
	return func(d *Diagnostic) { d.Span = span }
}

// Payload attaches a structured, machine-readable payload.
func Payload(v any) Option {
	return func(d *Diagnostic) { d.Structured = v }
}

// Hint appends a hint string, e.g. a suggested fix.
func Hint(format string, args ...any) Option {
	msg := fmt.Sprintf(format, args...)
	return func(d *Diagnostic) { d.Hints = append(d.Hints, msg) }
}

// RelatedTo appends a related source location, e.g. "shadowed binding here".
func RelatedTo(span source.Span, format string, args ...any) Option {
	msg := fmt.Sprintf(format, args...)
	return func(d *Diagnostic) { d.Related = append(d.Related, Related{Span: span, Message: msg}) }
}

func new(level Level, code, format string, args []any, opts []Option) *Diagnostic {
	d := &Diagnostic{
		Level:   level,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Report accumulates diagnostics across one compile pass or an entire
// pipeline run. A zero Report is ready to use.
type Report struct {
	diags   []*Diagnostic
	strict  bool
	counter int
}

// Errorf appends a new error-level diagnostic and returns it for further
// configuration via Apply.
func (r *Report) Errorf(code, format string, args ...any) *Diagnostic {
	return r.add(Error, code, format, args, nil)
}

// Warningf appends a new warning-level diagnostic.
func (r *Report) Warningf(code, format string, args ...any) *Diagnostic {
	return r.add(Warning, code, format, args, nil)
}

// Infof appends a new info-level diagnostic.
func (r *Report) Infof(code, format string, args ...any) *Diagnostic {
	return r.add(Info, code, format, args, nil)
}

// Add appends a fully-constructed diagnostic built from the given level,
// code, message, and options in one call; this is the form most passes use.
func (r *Report) Add(level Level, code, format string, opts []Option, args ...any) *Diagnostic {
	return r.add(level, code, format, args, opts)
}

func (r *Report) add(level Level, code, format string, args []any, opts []Option) *Diagnostic {
	d := new(level, code, format, args, opts)
	d.emitOrder = r.counter
	r.counter++
	r.diags = append(r.diags, d)
	return d
}

// Apply applies additional options to a diagnostic previously returned by
// Errorf/Warningf/Infof, e.g. r.Errorf(...).Apply(report.Hint("try x"))
// style chaining is achieved by calling the options directly:
//
//	d := r.Errorf("E0001", "bad token")
//	report.At(span)(d)
func Apply(d *Diagnostic, opts ...Option) *Diagnostic {
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Promote turns every Warning-level diagnostic into an Error-level one,
// implementing the strict-mode lever described in spec.md §7. It is the
// caller's (driver's) responsibility to invoke this; the compiler itself
// never does.
func (r *Report) Promote(level Level) {
	if level != Warning {
		return
	}
	for _, d := range r.diags {
		if d.Level == Warning {
			d.Level = Error
		}
	}
}

// Diagnostics returns all diagnostics accumulated so far, sorted by primary
// span start offset and then by emission order, per spec.md §5's ordering
// guarantee. Diagnostics with no span (Span.File == nil) sort first.
func (r *Report) Diagnostics() []*Diagnostic {
	out := make([]*Diagnostic, len(r.diags))
	copy(out, r.diags)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		af, bf := a.Span.File != nil, b.Span.File != nil
		if af != bf {
			return bf // a (no span) sorts first
		}
		if af && a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		return a.emitOrder < b.emitOrder
	})
	return out
}

// Success reports whether no diagnostic at Error level has been recorded.
func (r *Report) Success() bool {
	for _, d := range r.diags {
		if d.Level == Error {
			return false
		}
	}
	return true
}

// CatchICE recovers a panic as an internal-compiler-error diagnostic and
// appends it to r at Error level with IsICE set. It must be called in a
// defer statement at one of the five top-level entry points (spec.md §7:
// "only out-of-memory or implementation bugs may panic"); ordinary
// diagnostic-producing failures never reach here because every pass reports
// them through r directly instead of panicking. diagnose, if non-nil, may
// further annotate the synthesized diagnostic (e.g. attach the span being
// processed when the panic struck).
func (r *Report) CatchICE(diagnose func(*Diagnostic)) {
	panicked := recover()
	if panicked == nil {
		return
	}

	d := r.add(Error, "E0000", "internal compiler error: %v", []any{panicked}, nil)
	d.IsICE = true
	if diagnose != nil {
		diagnose(d)
	}

	stack := strings.Split(strings.TrimSpace(string(debug.Stack())), "\n")
	if len(stack) > 4 {
		stack = stack[4:] // drop goroutine header + this function's own frames
	}
	d.Hints = append(d.Hints, "stack trace:\n"+strings.Join(stack, "\n"))
}

// Len returns the number of diagnostics recorded so far.
func (r *Report) Len() int { return len(r.diags) }

// Merge appends every diagnostic from other into r, preserving relative
// emission order within each report; used to concatenate the diagnostic
// vectors of independent passes (spec.md §5: "final diagnostic vector is
// their ordered concatenation").
func (r *Report) Merge(other *Report) {
	for _, d := range other.diags {
		d2 := *d
		d2.emitOrder = r.counter
		r.counter++
		r.diags = append(r.diags, &d2)
	}
}

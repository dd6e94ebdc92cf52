// Package diag provides structured diagnostics for collector-level events
// that are not user-facing errors: leaked cycles, contract-violation
// warnings, and other conditions the collector reports but does not fail on.
package diag

import (
	"sort"
	"strconv"
	"strings"
)

// Code identifies a category of collector diagnostic.
type Code string

const (
	// CodeCycleLeak reports a cycle that survived final teardown sweep.
	CodeCycleLeak Code = "cycle_leak"
	// CodeDoubleFree reports a detected double-destroy/double-unlink attempt.
	CodeDoubleFree Code = "double_free"
	// CodeReentrantGC reports a suppressed re-entrant sweep request.
	CodeReentrantGC Code = "reentrant_gc"
)

// Report captures a single structured diagnostic emitted by a Context.
type Report struct {
	ContextID   string
	Code        Code
	ObjectCount int
	Message     string
	Remediation string

	cause error
}

// Option configures a Report.
type Option func(*Report)

// New constructs a diagnostic Report for the given context and code.
func New(contextID string, code Code, opts ...Option) *Report {
	r := &Report{
		ContextID:   strings.TrimSpace(contextID),
		Code:        code,
		ObjectCount: 0,
		Message:     "",
		Remediation: "",
		cause:       nil,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithMessage attaches a human-readable message.
func WithMessage(msg string) Option {
	trimmed := strings.TrimSpace(msg)
	return func(r *Report) { r.Message = trimmed }
}

// WithRemediation attaches remediation guidance.
func WithRemediation(msg string) Option {
	trimmed := strings.TrimSpace(msg)
	return func(r *Report) { r.Remediation = trimmed }
}

// WithObjectCount records how many objects the diagnostic concerns.
func WithObjectCount(n int) Option {
	return func(r *Report) { r.ObjectCount = n }
}

// WithCause attaches an underlying cause.
func WithCause(err error) Option {
	return func(r *Report) { r.cause = err }
}

func (r *Report) Error() string {
	if r == nil {
		return "<nil>"
	}
	var parts []string

	ctx := r.ContextID
	if ctx == "" {
		ctx = "unknown"
	}
	parts = append(parts, "context="+ctx)

	code := strings.TrimSpace(string(r.Code))
	if code == "" {
		code = "unknown"
	}
	parts = append(parts, "code="+code)

	if r.ObjectCount > 0 {
		parts = append(parts, "objects="+strconv.Itoa(r.ObjectCount))
	}
	if r.Message != "" {
		parts = append(parts, "message="+strconv.Quote(r.Message))
	}
	if r.Remediation != "" {
		parts = append(parts, "remediation="+strconv.Quote(r.Remediation))
	}
	if r.cause != nil {
		parts = append(parts, "cause="+strconv.Quote(r.cause.Error()))
	}

	return strings.Join(parts, " ")
}

func (r *Report) Unwrap() error { return r.cause }

// Sorted returns reports ordered by ContextID then Code, for deterministic
// log output when a teardown produces more than one diagnostic.
func Sorted(reports []*Report) []*Report {
	out := make([]*Report, len(reports))
	copy(out, reports)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ContextID != out[j].ContextID {
			return out[i].ContextID < out[j].ContextID
		}
		return out[i].Code < out[j].Code
	})
	return out
}

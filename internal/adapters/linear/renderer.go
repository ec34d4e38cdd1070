// Package linear provides a synchronous, line-oriented renderer for classification results.
package linear

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/rscd/internal/core/domain"
	"go.trai.ch/rscd/internal/core/ports"
	"go.trai.ch/rscd/internal/ui/output"
	"go.trai.ch/rscd/internal/ui/style"
)

var _ ports.SpanReporter = (*Renderer)(nil)

// Renderer prints decorations to stdout and span timings to stderr.
// Output is one line per item in the order calls arrive.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer

	mu    sync.Mutex
	out   *termenv.Output
	err   *termenv.Output
	spans map[string]*spanState // spanID -> span state
}

type spanState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer, mode output.ColorMode) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	r := &Renderer{
		stdout: stdout,
		stderr: stderr,
		spans:  make(map[string]*spanState),
	}
	r.SetColorMode(mode)
	return r
}

// SetColorMode re-resolves the color profiles of both streams.
func (r *Renderer) SetColorMode(mode output.ColorMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.out = termenv.NewOutput(r.stdout, termenv.WithProfile(output.ProfileFor(r.stdout, mode)))
	r.err = termenv.NewOutput(r.stderr, termenv.WithProfile(output.ProfileFor(r.stderr, mode)))
}

// PrintDecoration prints the badge of a classified file followed by its path.
func (r *Renderer) PrintDecoration(path string, dec domain.Decoration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", r.badgeLocked(dec), path)
}

// PrintDetail prints a classified file with the decoration tooltip.
func (r *Renderer) PrintDetail(path string, dec domain.Decoration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tooltip := r.out.String(dec.Tooltip).Faint().String()
	_, _ = fmt.Fprintf(r.stdout, "%s %s  %s\n", r.badgeLocked(dec), path, tooltip)
}

// PrintUnavailable prints a file whose classification could not be computed.
func (r *Renderer) PrintUnavailable(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mark := r.out.String(style.Warning).Foreground(r.out.Color(string(style.Yellow))).String()
	_, _ = fmt.Fprintf(r.stdout, "%s %s  unavailable\n", mark, path)
}

// PrintNotApplicable prints a file outside every discovered source directory.
func (r *Renderer) PrintNotApplicable(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stdout, "%s %s  not applicable\n", r.out.String("-").Faint().String(), path)
}

// PrintSummary prints the number of classified files per kind.
func (r *Renderer) PrintSummary(client, server, unavailable int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := fmt.Sprintf("%d client, %d server", client, server)
	if unavailable > 0 {
		line += fmt.Sprintf(", %d unavailable", unavailable)
	}
	_, _ = fmt.Fprintln(r.stdout, r.out.String(line).Faint().String())
}

func (r *Renderer) badgeLocked(dec domain.Decoration) string {
	color := r.out.Color(string(style.ComponentColor(dec.ColorTag)))
	return r.out.String(dec.Badge).Bold().Foreground(color).String()
}

// OnSpanStart records the start of a traced operation.
func (r *Renderer) OnSpanStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.spans[spanID] = &spanState{name: name, startTime: startTime}
}

// OnSpanEnd prints the outcome and duration of a traced operation.
func (r *Renderer) OnSpanEnd(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span, ok := r.spans[spanID]
	if !ok {
		return
	}
	delete(r.spans, spanID)

	duration := endTime.Sub(span.startTime)
	prefix := r.err.String(fmt.Sprintf("[%s]", span.name)).Faint().String()

	if err != nil {
		symbol := r.err.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
		return
	}

	symbol := r.err.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
}

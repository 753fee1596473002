package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/elektronenhirn/oper/internal/history"
)

// Sink is a progress sink whose output must be finalized once the scan is
// over. Wait blocks until the final frame is on the terminal and buffered
// failure lines are printed.
type Sink interface {
	history.ProgressSink
	Wait()
}

// Compile-time interface conformance checks.
var (
	_ Sink = (*MultiBar)(nil)
	_ Sink = (*Plain)(nil)
)

// MultiBar renders one spinner row per worker slot plus an overall bar.
// Failure lines are buffered until Wait because the widget owns the terminal
// while bars render.
type MultiBar struct {
	p    *mpb.Progress
	rows []*mpb.Bar
	out  io.Writer

	mu      sync.Mutex
	labels  []string
	overall *mpb.Bar
	logs    []failure
}

type failure struct {
	path string
	msg  string
	err  error
}

// NewMultiBar builds a widget with one row per worker slot, writing to out.
func NewMultiBar(out io.Writer, slots int) *MultiBar {
	m := &MultiBar{
		p:      mpb.New(mpb.WithOutput(out), mpb.WithWidth(64)),
		out:    out,
		labels: make([]string, slots),
	}
	for i := range m.labels {
		m.labels[i] = "Idle"
	}
	for i := 0; i < slots; i++ {
		slot := i
		row := m.p.New(0,
			mpb.SpinnerStyle(),
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("[%d] ", slot)),
				decor.Any(func(decor.Statistics) string { return m.slotLabel(slot) }),
			),
		)
		m.rows = append(m.rows, row)
	}
	return m
}

func (m *MultiBar) slotLabel(slot int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.labels[slot]
}

// Begin adds the overall bar once the repository count is known.
func (m *MultiBar) Begin(total int) {
	if total <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overall = m.p.New(int64(total),
		mpb.BarStyle(),
		mpb.PrependDecorators(
			decor.Name("Scanned "),
			decor.CountersNoUnit("%d of %d"),
			decor.Name(" repositories"),
		),
	)
}

// Label updates the status text of one worker row.
func (m *MultiBar) Label(slot int, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot >= 0 && slot < len(m.labels) {
		m.labels[slot] = text
	}
}

// Tick advances the overall bar by one repository.
func (m *MultiBar) Tick() {
	m.mu.Lock()
	bar := m.overall
	m.mu.Unlock()
	if bar != nil {
		bar.Increment()
	}
}

// Log buffers a failure line for printing after the bars are gone.
func (m *MultiBar) Log(path, msg string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, failure{path: path, msg: msg, err: err})
}

// Wait drops the worker rows, waits for the widget to render its final
// frame, and prints the buffered failure lines.
func (m *MultiBar) Wait() {
	for _, row := range m.rows {
		row.Abort(true)
	}
	m.p.Wait()

	m.mu.Lock()
	logs := m.logs
	m.logs = nil
	m.mu.Unlock()
	for _, l := range logs {
		printFailure(m.out, l.path, l.msg, l.err)
	}
}

// Plain prints failures as they happen and a closing summary line. It is the
// sink for output that is piped or otherwise not a terminal, where a
// redrawing widget would only leave garbage.
type Plain struct {
	mu    sync.Mutex
	out   io.Writer
	total int
	done  int
}

// NewPlain builds a line-oriented sink writing to out.
func NewPlain(out io.Writer) *Plain {
	return &Plain{out: out}
}

// Begin records the repository count for the closing summary.
func (p *Plain) Begin(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// Label is a no-op: per-worker status only makes sense on a live terminal.
func (p *Plain) Label(int, string) {}

// Tick counts a finished repository.
func (p *Plain) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
}

// Log prints the failure immediately.
func (p *Plain) Log(path, msg string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	printFailure(p.out, path, msg, err)
}

// Wait prints the closing summary.
func (p *Plain) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "Scanned %d of %d repositories\n", p.done, p.total)
}

func printFailure(out io.Writer, path, msg string, err error) {
	fmt.Fprintf(out, "%s: %s: %v\n", color.RedString(msg), color.BlueString(path), err)
}

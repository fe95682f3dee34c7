package tui

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gtpsa/internal/analysis"
	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/experiment"
)

const historyLen = 120

type stepMsg struct {
	t     float64
	point []float64
	norms []float64
}

type doneMsg struct {
	res *dynamo.Result
	err error
}

// Model is the live view of one propagation: progress, the reference point,
// and the size of every order of the transfer map as it grows.
type Model struct {
	title    string
	duration float64

	t       float64
	point   []float64
	norms   []float64
	history []float64

	done bool
	res  *dynamo.Result
	err  error

	width int
}

func NewModel(title string, duration float64) Model {
	return Model{title: title, duration: duration, width: 80}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case stepMsg:
		m.t, m.point, m.norms = msg.t, msg.point, msg.norms
		if len(msg.point) > 0 {
			m.history = append(m.history, msg.point[0])
			if len(m.history) > historyLen {
				m.history = m.history[len(m.history)-historyLen:]
			}
		}
	case doneMsg:
		m.done, m.res, m.err = true, msg.res, msg.err
		if msg.res != nil && len(msg.res.Times) > 0 {
			m.t = msg.res.Times[len(msg.res.Times)-1]
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	status := green.Render("● running")
	switch {
	case m.done && m.err != nil:
		status = red.Render("✕ failed")
	case m.done:
		status = yellow.Render("○ done")
	}
	fmt.Fprintf(&b, "\n   %s  %s\n", cyan.Render(m.title), status)

	progress := 0.0
	if m.duration > 0 {
		progress = m.t / m.duration
	}
	fmt.Fprintf(&b, "   %s %s\n\n", bar(progress, 36), dim.Render(fmt.Sprintf("t=%.3f/%.3f", m.t, m.duration)))

	if len(m.point) > 0 {
		b.WriteString("   " + dim.Render("reference") + "\n   ")
		for i, v := range m.point {
			b.WriteString(dim.Render(fmt.Sprintf("x%d=", i)) + white.Render(fmt.Sprintf("%.5f", v)) + "  ")
		}
		b.WriteString("\n\n")
	}

	if len(m.norms) > 0 {
		b.WriteString("   " + dim.Render("order norms (log10)") + "\n")
		for o, n := range m.norms {
			lg := math.Inf(-1)
			if n > 0 {
				lg = math.Log10(n)
			}
			// map log10 in [-16, 4] onto the bar
			frac := (lg + 16) / 20
			fmt.Fprintf(&b, "   %s %s %s\n", dim.Render(fmt.Sprintf("%2d", o)), bar(frac, 30), magenta.Render(fmt.Sprintf("%9.2e", n)))
		}
		b.WriteString("\n")
	}

	if len(m.history) > 1 {
		fmt.Fprintf(&b, "   %s %s\n", dim.Render("x0"), cyan.Render(sparkline(m.history, 40)))
	}

	if m.err != nil {
		fmt.Fprintf(&b, "\n   %s\n", red.Render(m.err.Error()))
	}
	if m.res != nil && len(m.res.Metrics) > 0 {
		names := make([]string, 0, len(m.res.Metrics))
		for k := range m.res.Metrics {
			names = append(names, k)
		}
		sort.Strings(names)
		b.WriteString("\n")
		for _, k := range names {
			fmt.Fprintf(&b, "   %s %s\n", dim.Render(fmt.Sprintf("%-14s", k)), white.Render(fmt.Sprintf("%.6g", m.res.Metrics[k])))
		}
	}

	b.WriteString("\n" + dim.Render("   q quit") + "\n")
	return b.String()
}

// Observer forwards propagation steps to a program at most once per
// interval. The last step is always delivered through the done message.
type Observer struct {
	send  func(tea.Msg)
	every time.Duration
	last  time.Time
}

func NewObserver(send func(tea.Msg), every time.Duration) *Observer {
	return &Observer{send: send, every: every}
}

func (o *Observer) OnStep(x dynamo.State, t float64) {
	now := time.Now()
	if !o.last.IsZero() && now.Sub(o.last) < o.every {
		return
	}
	o.last = now
	o.send(stepMsg{t: t, point: x.Point(), norms: orderTotals(x)})
}

func orderTotals(x dynamo.State) []float64 {
	var out []float64
	for _, comp := range analysis.OrderNorms(x) {
		for o, v := range comp {
			if o >= len(out) {
				out = append(out, make([]float64, o+1-len(out))...)
			}
			out[o] += v
		}
	}
	return out
}

// Run propagates e while showing the live view, and returns the result once
// the view is closed. Closing the view early cancels the propagation.
func Run(ctx context.Context, e *experiment.Experiment) (*dynamo.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := e.Config()
	p := tea.NewProgram(NewModel(fmt.Sprintf("%s · %s · order %d", cfg.Model, cfg.Integrator, cfg.Order), cfg.Duration))
	e.Propagator().AddObserver(NewObserver(p.Send, 33*time.Millisecond))

	done := make(chan doneMsg, 1)
	go func() {
		res, err := e.Run(ctx)
		msg := doneMsg{res: res, err: err}
		done <- msg
		p.Send(msg)
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, err
	}
	cancel()
	msg := <-done
	return msg.res, msg.err
}

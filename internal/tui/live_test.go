package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/tpsa"
)

func TestModelUpdate(t *testing.T) {
	var m tea.Model = NewModel("pendulum", 2)

	m, _ = m.Update(stepMsg{t: 1, point: []float64{0.25, -0.5}, norms: []float64{0.25, 1, 1e-3}})
	view := m.View()
	for _, want := range []string{"pendulum", "running", "x0=", "0.25000", "order norms"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	res := &dynamo.Result{Times: []float64{0, 2}, Metrics: map[string]float64{"energy_drift": 1e-9}}
	m, _ = m.Update(doneMsg{res: res})
	view = m.View()
	if !strings.Contains(view, "done") || !strings.Contains(view, "energy_drift") {
		t.Errorf("finished view:\n%s", view)
	}
	if got := m.(Model).t; got != 2 {
		t.Errorf("time = %g, want 2", got)
	}

	m, _ = m.Update(doneMsg{err: errors.New("boom")})
	if !strings.Contains(m.View(), "boom") {
		t.Error("error not shown")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelHistoryBounded(t *testing.T) {
	var m tea.Model = NewModel("x", 1)
	for i := 0; i < 2*historyLen; i++ {
		m, _ = m.Update(stepMsg{point: []float64{float64(i)}})
	}
	if n := len(m.(Model).history); n != historyLen {
		t.Errorf("history has %d entries, want %d", n, historyLen)
	}
}

func TestObserverThrottles(t *testing.T) {
	d, err := tpsa.NewDesc(tpsa.Config{NumVars: 2, MaxOrder: 2, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	x := dynamo.NewState(d, []float64{1, 2})

	var got []stepMsg
	o := NewObserver(func(msg tea.Msg) { got = append(got, msg.(stepMsg)) }, time.Hour)
	o.OnStep(x, 0)
	o.OnStep(x, 0.1)
	if len(got) != 1 {
		t.Fatalf("sent %d messages, want 1", len(got))
	}
	// 1 + x and 2 + y: order 0 total 3, order 1 total 2.
	if n := got[0].norms; len(n) != 2 || n[0] != 3 || n[1] != 2 {
		t.Errorf("order totals = %v", n)
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline([]float64{0, 1}, 10); got != "▁█" {
		t.Errorf("sparkline = %q", got)
	}
	if sparkline(nil, 5) != "" {
		t.Error("empty sparkline")
	}
}

package main

import (
	"testing"

	"github.com/san-kum/gtpsa/internal/config"
)

func TestCommandDefaults(t *testing.T) {
	newRootCmd()

	ints := []struct {
		name      string
		got, want int
	}{
		{"desc order", descOrder, 4},
		{"desc workers", descWorkers, 1},
		{"fun order", funOrder, 6},
		{"bench vars", benchVars, 6},
		{"bench order", benchOrder, 6},
		{"bench workers", benchWorkers, 0},
		{"run order", order, config.DefaultOrder},
		{"run workers", workers, 1},
		{"phase turns", phaseTurns, 500},
		{"track turns", trackTurns, config.DefaultTurns},
	}
	for _, tt := range ints {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
	if phaseAmp != 0.1 || trackAmp != 1e-3 {
		t.Errorf("amplitudes = %g, %g", phaseAmp, trackAmp)
	}
}

func TestFlagsStayLocal(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"desc", "--order", "3", "--vars", "1"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if descOrder != 3 || funOrder != 6 || benchOrder != 6 || order != config.DefaultOrder {
		t.Errorf("orders after desc: desc %d, fun %d, bench %d, run %d", descOrder, funOrder, benchOrder, order)
	}
}

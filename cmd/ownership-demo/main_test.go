package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/ownership/stress"
)

func TestReadMode(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		prompt bool
	}{
		{"single token", "sp\n", "sp", false},
		{"leading whitespace", "  \n\twp  extra", "wp", false},
		{"empty", "", "", false},
		{"prompted", "up", "up", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got := readMode(strings.NewReader(tc.input), &out, tc.prompt)
			if got != tc.want {
				t.Errorf("readMode() = %q, want %q", got, tc.want)
			}
			if tc.prompt != (out.Len() > 0) {
				t.Errorf("prompt written = %v, want %v", out.Len() > 0, tc.prompt)
			}
		})
	}
}

func TestRunMode(t *testing.T) {
	tests := []struct {
		mode  string
		want  []string
		known bool
	}{
		{modeUnique, []string{"Has a pointer!", "Has Not a pointer!"}, true},
		{modeShared, []string{
			"Has a pointer!",
			"Before Reset, Number of Count: 2",
			"After Reset, Number of Count: 1",
			"Before Swap sptr3: 10 sptr4: 5",
			"After Swap sptr3: 5 sptr4: 10",
			"Observer attached, Number of Count: 1",
		}, true},
		{modeWeak, []string{
			"Weak handle Does NOT Increase Count!",
			"Released!",
			"Released! Lock returned an empty handle!",
		}, true},
		{"", []string{wrongArgument}, false},
		{"xp", []string{wrongArgument}, false},
	}

	for _, tc := range tests {
		t.Run("mode "+tc.mode, func(t *testing.T) {
			var out bytes.Buffer
			if known := runMode(&out, tc.mode); known != tc.known {
				t.Errorf("runMode() = %v, want %v", known, tc.known)
			}
			got := out.String()
			for _, line := range tc.want {
				if !strings.Contains(got, line) {
					t.Errorf("output missing %q:\n%s", line, got)
				}
			}
			if strings.Contains(got, "Error:") {
				t.Errorf("unexpected error in output:\n%s", got)
			}
		})
	}
}

func TestRunStress(t *testing.T) {
	cfg := stress.DefaultConfig()
	cfg.Goroutines = 4
	cfg.Iterations = 500

	var out bytes.Buffer
	if err := runStress(context.Background(), &out, &cfg); err != nil {
		t.Fatalf("runStress() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"4 goroutines x 500 iterations", stress.ScenarioCopying, stress.ScenarioSharedMutation} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	cfg.Goroutines = 0
	if err := runStress(context.Background(), &out, &cfg); err == nil {
		t.Error("expected error for zero goroutines")
	}
}

func TestInteractiveModel_Navigation(t *testing.T) {
	cfg := stress.DefaultConfig()
	m := newInteractiveModel(&cfg)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.selected != 0 {
		t.Fatalf("selected = %d after up at top", m.selected)
	}
	for i := 0; i < len(menuItems)+2; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.selected != len(menuItems)-1 {
		t.Fatalf("selected = %d, want last item", m.selected)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateStressParams || len(m.inputs) != 2 {
		t.Fatalf("state = %v with %d inputs, want stress params", m.state, len(m.inputs))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateMenu {
		t.Fatalf("state = %v after esc, want menu", m.state)
	}
}

func TestInteractiveModel_RunMode(t *testing.T) {
	cfg := stress.DefaultConfig()
	m := newInteractiveModel(&cfg)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || m.state != stateRunning {
		t.Fatalf("enter on menu should start a run, state = %v", m.state)
	}
	m.Update(cmd())
	if m.state != stateShowResult {
		t.Fatalf("state = %v, want result", m.state)
	}
	if !strings.Contains(m.result, "Has Not a pointer!") {
		t.Errorf("result = %q", m.result)
	}
	if !strings.Contains(m.View(), "Has a pointer!") {
		t.Error("view should render the result")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateMenu || m.result != "" {
		t.Fatalf("enter on result should return to the menu")
	}
}

func TestInteractiveModel_StressConfig(t *testing.T) {
	cfg := stress.DefaultConfig()
	m := newInteractiveModel(&cfg)
	m.prepareInputs()

	m.inputs[0].SetValue("3")
	got, err := m.stressConfig()
	if err != nil {
		t.Fatalf("stressConfig() error = %v", err)
	}
	if got.Goroutines != 3 || got.Iterations != cfg.Iterations {
		t.Errorf("stressConfig() = %+v", got)
	}

	m.inputs[1].SetValue("many")
	if _, err := m.stressConfig(); err == nil {
		t.Error("expected error for non-numeric iterations")
	}
}

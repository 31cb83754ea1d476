package render_test

import (
	"testing"

	"github.com/goliatone/go-crudgen/pkg/render"
)

func TestSwitchStack_FirstMatchWins(t *testing.T) {
	sw := render.NewSwitchStack()
	sw.Begin("date")

	if !sw.Case("date", "dateTime") {
		t.Fatalf("expected first case to match")
	}
	if sw.Case("date") {
		t.Errorf("second case matched after the switch was satisfied")
	}
	if sw.Default() {
		t.Errorf("default fired after a case matched")
	}
	sw.End()
}

func TestSwitchStack_Default(t *testing.T) {
	sw := render.NewSwitchStack()
	sw.Begin("color")

	if sw.Case("date") || sw.Case("time") {
		t.Fatalf("unexpected case match")
	}
	if !sw.Default() {
		t.Errorf("default did not fire with no matching case")
	}
	sw.End()
}

func TestSwitchStack_Nesting(t *testing.T) {
	sw := render.NewSwitchStack()
	sw.Begin("outer")

	if sw.Case("inner") {
		t.Fatalf("outer switch matched wrong value")
	}

	sw.Begin("inner")
	if !sw.Case("inner") {
		t.Errorf("inner switch missed its value")
	}
	sw.End()

	// The outer frame is untouched by the nested switch.
	if !sw.Case("outer") {
		t.Errorf("outer switch lost its state across nesting")
	}
	sw.End()
}

func TestSwitchStack_EmptyStackIsInert(t *testing.T) {
	sw := render.NewSwitchStack()
	if sw.Case("anything") {
		t.Errorf("case matched with no open switch")
	}
	if sw.Default() {
		t.Errorf("default fired with no open switch")
	}
	sw.End() // must not panic
}

func TestSwitchStack_IndependentInstances(t *testing.T) {
	a := render.NewSwitchStack()
	b := render.NewSwitchStack()
	a.Begin("x")
	b.Begin("y")

	if !a.Case("x") {
		t.Errorf("stack a lost its value")
	}
	if !b.Case("y") {
		t.Errorf("stack b lost its value")
	}
}

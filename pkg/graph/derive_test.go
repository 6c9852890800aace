package graph

import (
	"errors"
	"slices"
	"testing"

	perrors "github.com/matzehuels/pipelayout/pkg/errors"
)

func TestDeriveSymmetry(t *testing.T) {
	p := New("diamond").
		MustAddStep(step("a")).
		MustAddStep(step("b", "a")).
		MustAddStep(step("c", "a")).
		MustAddStep(step("d", "b", "c"))

	got, err := Derive(p)
	if err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	if err := CheckSymmetry(got); err != nil {
		t.Errorf("CheckSymmetry() error: %v", err)
	}

	tests := []struct {
		id   string
		want []string
	}{
		{"a", []string{"b", "c"}},
		{"b", []string{"d"}},
		{"c", []string{"d"}},
		{"d", nil},
	}
	for _, tt := range tests {
		s, _ := got.Step(tt.id)
		if !slices.Equal(s.OutgoingConnections, tt.want) {
			t.Errorf("%s.OutgoingConnections = %v, want %v", tt.id, s.OutgoingConnections, tt.want)
		}
	}
}

func TestDeriveDiscardsStaleOutgoing(t *testing.T) {
	p := New("stale").
		MustAddStep(Step{UUID: "a", OutgoingConnections: []string{"ghost"}}).
		MustAddStep(step("b", "a"))

	got, err := Derive(p)
	if err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	a, _ := got.Step("a")
	if !slices.Equal(a.OutgoingConnections, []string{"b"}) {
		t.Errorf("a.OutgoingConnections = %v, want [b]", a.OutgoingConnections)
	}

	orig, _ := p.Step("a")
	if !slices.Equal(orig.OutgoingConnections, []string{"ghost"}) {
		t.Error("Derive() modified its input")
	}
}

func TestDeriveDeduplicatesIncoming(t *testing.T) {
	p := New("dup").
		MustAddStep(step("a")).
		MustAddStep(step("b", "a", "a"))

	got, err := Derive(p)
	if err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	a, _ := got.Step("a")
	b, _ := got.Step("b")
	if !slices.Equal(a.OutgoingConnections, []string{"b"}) {
		t.Errorf("a.OutgoingConnections = %v, want [b]", a.OutgoingConnections)
	}
	if !slices.Equal(b.IncomingConnections, []string{"a"}) {
		t.Errorf("b.IncomingConnections = %v, want [a]", b.IncomingConnections)
	}
}

func TestDeriveDangling(t *testing.T) {
	p := New("dangling").MustAddStep(step("b", "a"))

	_, err := Derive(p)
	if !errors.Is(err, perrors.ErrDanglingConnection) {
		t.Fatalf("Derive() error = %v, want ErrDanglingConnection", err)
	}

	var dce *perrors.DanglingConnectionError
	if !errors.As(err, &dce) {
		t.Fatalf("error is %T, want *DanglingConnectionError", err)
	}
	if dce.Step != "b" || dce.Missing != "a" {
		t.Errorf("DanglingConnectionError = %+v, want {Step:b Missing:a}", dce)
	}
}

func TestDeriveEmpty(t *testing.T) {
	got, err := Derive(New("empty"))
	if err != nil {
		t.Fatalf("Derive(empty) error: %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("Len() = %d, want 0", got.Len())
	}
}

func TestDeriveKeepsPositions(t *testing.T) {
	p := New("pos").MustAddStep(Step{UUID: "a", MetaData: MetaData{Position: [2]float64{7, 9}}})

	got, err := Derive(p)
	if err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	a, _ := got.Step("a")
	if a.MetaData.Position != [2]float64{7, 9} {
		t.Errorf("Position = %v, want [7 9]", a.MetaData.Position)
	}
}

func TestCheckSymmetryDetectsMismatch(t *testing.T) {
	p := New("broken").
		MustAddStep(Step{UUID: "a", OutgoingConnections: []string{"b"}}).
		MustAddStep(step("b"))

	if err := CheckSymmetry(p); !perrors.Is(err, perrors.ErrCodeInternal) {
		t.Errorf("CheckSymmetry() = %v, want INTERNAL_ERROR", err)
	}
}

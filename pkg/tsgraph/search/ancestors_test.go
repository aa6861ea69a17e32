package search

import (
	"errors"
	"reflect"
	"testing"

	"github.com/causalgo/tsoracle/pkg/tsgraph"
)

func mustGraph(t *testing.T, links map[int][]tsgraph.Link) *tsgraph.Graph {
	t.Helper()
	g, err := tsgraph.New(links)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func TestAncestorsChain(t *testing.T) {
	// 0(t-1) -> 1(t), 1(t-1) -> 2(t): the deepest ancestor of (2, 0) sits
	// two steps back.
	g := mustGraph(t, map[int][]tsgraph.Link{
		0: nil,
		1: {tsgraph.L(0, -1)},
		2: {tsgraph.L(1, -1)},
	})

	anc, err := Ancestors(g, []tsgraph.Node{{Var: 2}}, nil, NonRepeating, 0)
	if err != nil {
		t.Fatalf("Ancestors() error = %v", err)
	}

	want := []tsgraph.Node{{Var: 1, Lag: -1}, {Var: 0, Lag: -2}}
	if got := anc.Sets[tsgraph.Node{Var: 2}]; !reflect.DeepEqual(got, want) {
		t.Errorf("ancestors of (2, 0) = %v, want %v", got, want)
	}
	if anc.MaxLag != 2 {
		t.Errorf("MaxLag = %d, want 2", anc.MaxLag)
	}
}

func TestAncestorsNonRepeatingStopsAutocorrelation(t *testing.T) {
	// An AR(1) variable has infinitely many unrolled ancestors, but each
	// step repeats the same shifted link, so exactly one is admitted.
	g := mustGraph(t, map[int][]tsgraph.Link{
		0: {tsgraph.L(0, -1)},
	})

	anc, err := Ancestors(g, []tsgraph.Node{{Var: 0}}, nil, NonRepeating, 0)
	if err != nil {
		t.Fatalf("Ancestors() error = %v", err)
	}

	want := []tsgraph.Node{{Var: 0, Lag: -1}}
	if got := anc.Sets[tsgraph.Node{Var: 0}]; !reflect.DeepEqual(got, want) {
		t.Errorf("ancestors of (0, 0) = %v, want %v", got, want)
	}
	if anc.MaxLag != 1 {
		t.Errorf("MaxLag = %d, want 1", anc.MaxLag)
	}
}

func TestAncestorsMaxLagBound(t *testing.T) {
	g := mustGraph(t, map[int][]tsgraph.Link{
		0: {tsgraph.L(0, -1)},
	})

	anc, err := Ancestors(g, []tsgraph.Node{{Var: 0}}, nil, MaxLagBound, 3)
	if err != nil {
		t.Fatalf("Ancestors() error = %v", err)
	}

	want := []tsgraph.Node{{Var: 0, Lag: -1}, {Var: 0, Lag: -2}, {Var: 0, Lag: -3}}
	if got := anc.Sets[tsgraph.Node{Var: 0}]; !reflect.DeepEqual(got, want) {
		t.Errorf("ancestors of (0, 0) = %v, want %v", got, want)
	}
}

func TestAncestorsMissingBound(t *testing.T) {
	g := mustGraph(t, map[int][]tsgraph.Link{0: nil})

	_, err := Ancestors(g, []tsgraph.Node{{Var: 0}}, nil, MaxLagBound, -1)
	if !errors.Is(err, ErrMissingBound) {
		t.Errorf("Ancestors() error = %v, want %v", err, ErrMissingBound)
	}
}

func TestAncestorsBlockedByConditions(t *testing.T) {
	g := mustGraph(t, map[int][]tsgraph.Link{
		0: nil,
		1: {tsgraph.L(0, -1)},
		2: {tsgraph.L(1, -1)},
	})

	conds := []tsgraph.Node{{Var: 1, Lag: -1}}
	anc, err := Ancestors(g, []tsgraph.Node{{Var: 2}}, conds, NonRepeating, 0)
	if err != nil {
		t.Fatalf("Ancestors() error = %v", err)
	}

	if got := anc.Sets[tsgraph.Node{Var: 2}]; len(got) != 0 {
		t.Errorf("ancestors of (2, 0) = %v, want none", got)
	}
	if anc.MaxLag != 0 {
		t.Errorf("MaxLag = %d, want 0", anc.MaxLag)
	}
}

func TestAncestorsSeedOverridesCondition(t *testing.T) {
	// A conditioning node that is itself a seed still gets its ancestors
	// expanded.
	g := mustGraph(t, map[int][]tsgraph.Link{
		0: nil,
		1: {tsgraph.L(0, -1)},
	})

	seed := tsgraph.Node{Var: 1}
	anc, err := Ancestors(g, []tsgraph.Node{seed}, []tsgraph.Node{seed}, NonRepeating, 0)
	if err != nil {
		t.Fatalf("Ancestors() error = %v", err)
	}

	want := []tsgraph.Node{{Var: 0, Lag: -1}}
	if got := anc.Sets[seed]; !reflect.DeepEqual(got, want) {
		t.Errorf("ancestors of (1, 0) = %v, want %v", got, want)
	}
}

func TestAncestorsSelectionVariablesBlock(t *testing.T) {
	// Variable 2 is a selection variable: it is implicitly conditioned on,
	// so traversal never enters it.
	g, err := tsgraph.NewWithVars(map[int][]tsgraph.Link{
		0: nil,
		1: {tsgraph.L(2, 0)},
		2: {tsgraph.L(0, 0)},
	}, []int{0, 1}, []int{2})
	if err != nil {
		t.Fatalf("NewWithVars() error = %v", err)
	}

	anc, aerr := Ancestors(g, []tsgraph.Node{{Var: 1}}, nil, NonRepeating, 0)
	if aerr != nil {
		t.Fatalf("Ancestors() error = %v", aerr)
	}
	if got := anc.Sets[tsgraph.Node{Var: 1}]; len(got) != 0 {
		t.Errorf("ancestors of (1, 0) = %v, want none", got)
	}
}

func TestMaxLagFromXYZ(t *testing.T) {
	g := mustGraph(t, map[int][]tsgraph.Link{
		0: {tsgraph.L(0, -1)},
		1: {tsgraph.L(0, -1)},
		2: {tsgraph.L(1, -1)},
	})

	tests := []struct {
		name    string
		X, Y, Z []tsgraph.Node
		want    int
	}{
		{
			name: "horizon follows the deepest unblocked ancestor",
			X:    []tsgraph.Node{{Var: 0}},
			Y:    []tsgraph.Node{{Var: 2}},
			want: 3, // (2,0) <- (1,-1) <- (0,-2) <- (0,-3)
		},
		{
			name: "conditioning shortens the horizon",
			X:    []tsgraph.Node{{Var: 0}},
			Y:    []tsgraph.Node{{Var: 2}},
			Z:    []tsgraph.Node{{Var: 1, Lag: -1}},
			want: 3, // Y is blocked, but Z's own ancestry still reaches (0,-3)
		},
		{
			name: "contemporaneous seeds only",
			X:    []tsgraph.Node{{Var: 2}},
			Y:    []tsgraph.Node{{Var: 2}},
			Z:    nil,
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxLagFromXYZ(g, tt.X, tt.Y, tt.Z); got != tt.want {
				t.Errorf("MaxLagFromXYZ() = %d, want %d", got, tt.want)
			}
		})
	}
}

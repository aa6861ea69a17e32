package tsgraph

import "fmt"

// Node identifies one vertex of the time-unrolled graph: a variable index
// paired with a non-positive time lag. Lag 0 means "present time", lag -τ
// means τ steps into the past.
type Node struct {
	Var int // variable index
	Lag int // non-positive time lag
}

// String renders the node in (var, lag) form, e.g. "(2, -1)".
func (n Node) String() string { return fmt.Sprintf("(%d, %d)", n.Var, n.Lag) }

// Link is one incoming edge of a variable: a source variable at a
// non-positive relative lag, with a coefficient. Only the existence of a
// nonzero-coefficient link matters for d-separation; the coefficient value
// is carried for callers that also simulate from the graph. The optional
// generating function some link specifications carry is irrelevant here
// and is dropped at ingestion.
type Link struct {
	Source int     // source variable index
	Lag    int     // relative lag, <= 0 (0 = contemporaneous)
	Coeff  float64 // zero means the link is absent
}

// L builds a unit-coefficient link from source at the given relative lag.
func L(source, lag int) Link { return Link{Source: source, Lag: lag, Coeff: 1} }

// LC builds a link with an explicit coefficient.
func LC(source, lag int, coeff float64) Link { return Link{Source: source, Lag: lag, Coeff: coeff} }

package tsgraph

import (
	"errors"
	"fmt"
)

// Edge type codes accepted by [FromEdgeMatrix].
const (
	EdgeDirected   = "-->" // source causes target
	EdgeReversed   = "<--" // target causes source (lag 0 only)
	EdgeBidirected = "<->" // unobserved common cause
	EdgeUndirected = "---" // selection bias
)

var (
	// ErrMatrixShape is returned by [FromEdgeMatrix] when the edge matrix
	// is not square with a uniform lag depth of at least one.
	ErrMatrixShape = errors.New("edge matrix must be square with uniform lag depth")

	// ErrInvalidEdgeType is returned when a cell contains an unknown edge
	// type code.
	ErrInvalidEdgeType = errors.New("unknown edge type")

	// ErrInconsistentPattern is returned when a contemporaneous cell does
	// not mirror its reciprocal: the type at (i,j,0) must be the structural
	// reverse of the type at (j,i,0).
	ErrInconsistentPattern = errors.New("contemporaneous patterns must be mutually consistent")

	// ErrInvalidLaggedEdge is returned for a lagged "<--" cell, which is
	// meaningless: it is the mirror of a "-->" at the same lag pointing
	// the other direction.
	ErrInvalidLaggedEdge = errors.New(`lagged links can only be "-->", "<->" or "---"`)
)

// FromEdgeMatrix compiles a dense edge-type matrix, indexed
// [source][target][lag] with lag 0..tauMax, into a sparse graph. Cells are
// the empty string or one of [EdgeDirected], [EdgeReversed],
// [EdgeBidirected], [EdgeUndirected].
//
// Bidirected and undirected edges have no direct counterpart in a
// links-per-variable model, so the compiler follows the canonical-DAG
// construction: each "<->" occurrence allocates a fresh latent variable
// parenting both endpoints, and each "---" occurrence allocates a fresh
// selection variable with both endpoints as parents. The returned graph's
// observed variables are exactly the original N indices; the synthetic
// variables are appended after them.
func FromEdgeMatrix(matrix [][][]string) (*Graph, error) {
	n := len(matrix)
	if n == 0 {
		return nil, ErrMatrixShape
	}
	depth := -1
	for _, row := range matrix {
		if len(row) != n {
			return nil, ErrMatrixShape
		}
		for _, cell := range row {
			if depth == -1 {
				depth = len(cell)
			}
			if len(cell) != depth || depth == 0 {
				return nil, ErrMatrixShape
			}
		}
	}

	links := make(map[int][]Link, n)
	for v := 0; v < n; v++ {
		links[v] = nil
	}
	observed := make([]int, n)
	for v := range observed {
		observed[v] = v
	}
	var selection []int

	// Synthetic variables are appended after the original N.
	next := n

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for tau := 0; tau < depth; tau++ {
				edge := matrix[i][j][tau]
				if edge == "" {
					continue
				}
				if !validEdgeType(edge) {
					return nil, fmt.Errorf("graph[%d][%d][%d]=%q: %w", i, j, tau, edge, ErrInvalidEdgeType)
				}

				if tau == 0 {
					if edge != reversePattern(matrix[j][i][0]) {
						return nil, fmt.Errorf("graph[%d][%d][0]=%q but graph[%d][%d][0]=%q: %w",
							i, j, edge, j, i, matrix[j][i][0], ErrInconsistentPattern)
					}
					// Each contemporaneous pair is compiled once.
					if j <= i {
						continue
					}
				} else if edge == EdgeReversed {
					return nil, fmt.Errorf("graph[%d][%d][%d]=%q: %w", i, j, tau, edge, ErrInvalidLaggedEdge)
				}

				switch edge {
				case EdgeDirected:
					links[j] = append(links[j], L(i, -tau))
				case EdgeReversed:
					links[i] = append(links[i], L(j, 0))
				case EdgeBidirected:
					latent := next
					next++
					links[latent] = nil
					links[i] = append(links[i], L(latent, 0))
					links[j] = append(links[j], L(latent, -tau))
				case EdgeUndirected:
					sel := next
					next++
					selection = append(selection, sel)
					links[sel] = []Link{L(i, -tau), L(j, 0)}
				}
			}
		}
	}

	return NewWithVars(links, observed, selection)
}

func validEdgeType(edge string) bool {
	switch edge {
	case EdgeDirected, EdgeReversed, EdgeBidirected, EdgeUndirected:
		return true
	}
	return false
}

// reversePattern inverts a three-character link pattern, swapping the end
// marks so that the pattern reads correctly from the other endpoint.
// "-->" reverses to "<--"; "<->" and "---" are their own reverses.
func reversePattern(pattern string) string {
	if pattern == "" {
		return ""
	}
	left, middle, right := pattern[0], pattern[1], pattern[2]
	newRight := left
	if left == '<' {
		newRight = '>'
	}
	newLeft := right
	if right == '>' {
		newLeft = '<'
	}
	return string([]byte{newLeft, middle, newRight})
}

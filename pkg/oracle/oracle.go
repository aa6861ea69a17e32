package oracle

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/causalgo/tsoracle/pkg/cache"
	"github.com/causalgo/tsoracle/pkg/errors"
	"github.com/causalgo/tsoracle/pkg/graphio"
	"github.com/causalgo/tsoracle/pkg/tsgraph"
	"github.com/causalgo/tsoracle/pkg/tsgraph/search"
)

// Config carries the construction parameters of an [Oracle]. Exactly one
// of Links or EdgeMatrix must be set.
type Config struct {
	// Links maps each variable index to its incoming links. Variables in
	// Observed are the externally visible ones; Selection variables are
	// implicitly conditioned on at every lag. Nil Observed means all
	// variables are observed.
	Links     map[int][]tsgraph.Link
	Observed  []int
	Selection []int

	// EdgeMatrix is a dense edge-type array [source][target][lag],
	// compiled with [tsgraph.FromEdgeMatrix]. Bidirected and undirected
	// edges introduce synthetic latent/selection variables.
	EdgeMatrix [][][]string

	// Logger receives debug traces of searches and cache hits.
	// Nil discards them.
	Logger *log.Logger

	// Results optionally persists verdicts. The store is namespaced by a
	// hash of the graph, so several oracles may share one store.
	Results cache.Cache
}

// Oracle is a conditional-independence oracle over one immutable graph.
// Create with [New]; safe for concurrent use.
type Oracle struct {
	g       *tsgraph.Graph
	logger  *log.Logger
	results cache.Cache

	mu       sync.RWMutex
	dsepSets map[string]bool
	group    singleflight.Group

	searches atomic.Int64
	maxLag   atomic.Int64
}

// New creates an oracle from cfg. Construction validates the whole graph
// up front; a returned oracle never fails a well-formed query.
func New(cfg Config) (*Oracle, error) {
	var (
		g   *tsgraph.Graph
		err error
	)
	switch {
	case cfg.Links != nil:
		g, err = tsgraph.NewWithVars(cfg.Links, cfg.Observed, cfg.Selection)
	case cfg.EdgeMatrix != nil:
		g, err = tsgraph.FromEdgeMatrix(cfg.EdgeMatrix)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "either Links or EdgeMatrix must be specified")
	}
	if err != nil {
		return nil, errors.Wrap(graphErrCode(err), err, "build graph")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	o := &Oracle{
		g:        g,
		logger:   logger,
		dsepSets: make(map[string]bool),
	}
	if cfg.Results != nil {
		data, merr := graphio.MarshalGraph(g)
		if merr != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, merr, "hash graph")
		}
		o.results = cache.NewScoped(cfg.Results, "graph:"+cache.Hash(data)+":")
	}
	return o, nil
}

// graphErrCode maps graph construction failures onto facade error codes.
func graphErrCode(err error) errors.Code {
	switch {
	case stderrors.Is(err, tsgraph.ErrInvalidLaggedEdge):
		return errors.ErrCodeInvalidLaggedEdge
	case stderrors.Is(err, tsgraph.ErrInconsistentPattern),
		stderrors.Is(err, tsgraph.ErrInvalidEdgeType),
		stderrors.Is(err, tsgraph.ErrMatrixShape):
		return errors.ErrCodeInvalidGraph
	default:
		return errors.ErrCodeInvalidConfig
	}
}

// Measure identifies the oracle in statistical-test interfaces.
func (o *Oracle) Measure() string { return "oracle_ci" }

// Graph returns the compiled graph the oracle queries.
func (o *Oracle) Graph() *tsgraph.Graph { return o.g }

// MaxLag returns the truncation horizon resolved by the most recent
// search. Zero before any search has run.
func (o *Oracle) MaxLag() int { return int(o.maxLag.Load()) }

// SearchCount returns the number of underlying d-separation searches
// executed so far. Memo and persistent-cache hits do not count; a distinct
// query costs exactly one search.
func (o *Oracle) SearchCount() int64 { return o.searches.Load() }

// RunTest performs the oracle conditional-independence test X ⊥ Y | Z.
// It returns the test-statistic value and p-value in the convention of
// statistical tests: (0, 1) if X and Y are d-separated given Z, (1, 0)
// otherwise. tauMax is accepted for call-site compatibility and unused.
func (o *Oracle) RunTest(X, Y, Z []tsgraph.Node, tauMax int) (val, pval float64, err error) {
	xs, ys, zs, err := o.checkXYZ(X, Y, Z)
	if err != nil {
		o.logger.Debug("query rejected", "code", errors.GetCode(err), "reason", errors.UserMessage(err))
		return 0, 0, err
	}
	if o.isDSep(xs, ys, zs) {
		queriesTotal.WithLabelValues("independent").Inc()
		return 0, 1, nil
	}
	queriesTotal.WithLabelValues("dependent").Inc()
	return 1, 0, nil
}

// GetMeasure returns the dependence measure: 0 if X and Y are d-separated
// given Z, 1 otherwise. tauMax is accepted for call-site compatibility and
// unused.
func (o *Oracle) GetMeasure(X, Y, Z []tsgraph.Node, tauMax int) (float64, error) {
	val, _, err := o.RunTest(X, Y, Z, tauMax)
	return val, err
}

// PathOptions controls [Oracle.GetShortestPath].
type PathOptions struct {
	// MaxLag truncates the unrolled graph at an explicit horizon.
	// Non-positive means "derive a sufficient horizon by ancestor search".
	MaxLag int

	// ComputeAncestors also returns the full ancestor sets of X, Y and Z
	// up to the resolved horizon.
	ComputeAncestors bool

	// Backdoor restricts the search to paths whose first edge enters a
	// parent of the X node (paths leaving X as a tail are excluded).
	Backdoor bool
}

// Ancestry holds the per-node ancestor sets of a query, keyed by the
// canonicalized (internal-index) query nodes.
type Ancestry struct {
	X, Y, Z map[tsgraph.Node][]tsgraph.Node
}

// PathResult is the outcome of [Oracle.GetShortestPath].
type PathResult struct {
	// Path is a d-connecting path from an X node to a Y node, filtered to
	// observed variables; synthetic latent/selection nodes participate in
	// the search but are stripped here. Node indices are the compiled
	// (internal) ones, as in the links the oracle was built from.
	Path []tsgraph.Node

	// Found reports whether any d-connecting path exists. When false, X
	// and Y are d-separated given Z at the resolved horizon.
	Found bool

	// MaxLag is the truncation horizon the search ran under.
	MaxLag int

	// Ancestors is populated when [PathOptions.ComputeAncestors] is set.
	Ancestors *Ancestry
}

// GetShortestPath searches for a d-connecting path between X and Y given
// Z and reconstructs it when one exists.
func (o *Oracle) GetShortestPath(X, Y, Z []tsgraph.Node, opts PathOptions) (*PathResult, error) {
	xs, ys, zs, err := o.checkXYZ(X, Y, Z)
	if err != nil {
		o.logger.Debug("query rejected", "code", errors.GetCode(err), "reason", errors.UserMessage(err))
		return nil, err
	}

	maxLag := opts.MaxLag
	if maxLag <= 0 {
		maxLag = search.MaxLagFromXYZ(o.g, xs, ys, zs)
	}
	o.maxLag.Store(int64(maxLag))
	o.searches.Add(1)
	searchesTotal.Inc()
	o.logger.Debug("path search", "X", xs, "Y", ys, "Z", zs, "max_lag", maxLag, "backdoor", opts.Backdoor)

	path, found := search.HasOpenPath(o.g, xs, ys, zs, maxLag, opts.Backdoor)
	res := &PathResult{Found: found, MaxLag: maxLag}
	if found {
		for _, n := range path {
			if o.g.IsObserved(n.Var) {
				res.Path = append(res.Path, n)
			}
		}
	}

	if opts.ComputeAncestors {
		anc := &Ancestry{}
		for _, part := range []struct {
			seeds []tsgraph.Node
			dst   *map[tsgraph.Node][]tsgraph.Node
		}{{xs, &anc.X}, {ys, &anc.Y}, {zs, &anc.Z}} {
			a, aerr := search.Ancestors(o.g, part.seeds, zs, search.MaxLagBound, maxLag)
			if aerr != nil {
				return nil, errors.Wrap(errors.ErrCodeMissingBound, aerr, "ancestor search")
			}
			*part.dst = a.Sets
		}
		res.Ancestors = anc
	}

	return res, nil
}

// GetModelSelectionCriterion always fails: model selection is not
// implemented for the d-separation oracle.
func (o *Oracle) GetModelSelectionCriterion(j int, parents []tsgraph.Node, tauMax int) (float64, error) {
	return 0, errors.New(errors.ErrCodeUnsupported, "model selection not implemented for %s", o.Measure())
}

// checkXYZ validates a query and canonicalizes it into internal variable
// indices: duplicates are dropped (first occurrence wins), Z nodes that
// also appear in X or Y are removed, and at least one Y node must have lag
// zero.
func (o *Oracle) checkXYZ(X, Y, Z []tsgraph.Node) (xs, ys, zs []tsgraph.Node, err error) {
	if len(X) == 0 || len(Y) == 0 {
		return nil, nil, nil, errors.New(errors.ErrCodeInvalidQuery, "X and Y must not be empty")
	}

	obs := o.g.Observed()
	translate := func(name string, nodes []tsgraph.Node) ([]tsgraph.Node, error) {
		out := make([]tsgraph.Node, 0, len(nodes))
		for _, n := range nodes {
			if n.Var < 0 || n.Var >= len(obs) {
				return nil, errors.New(errors.ErrCodeInvalidQuery,
					"%s node %s: variable must be in [0, %d)", name, n, len(obs))
			}
			if n.Lag > 0 {
				return nil, errors.New(errors.ErrCodeInvalidQuery,
					"%s node %s: lags must be non-positive", name, n)
			}
			out = append(out, tsgraph.Node{Var: obs[n.Var], Lag: n.Lag})
		}
		return out, nil
	}

	if xs, err = translate("X", X); err != nil {
		return nil, nil, nil, err
	}
	if ys, err = translate("Y", Y); err != nil {
		return nil, nil, nil, err
	}
	if zs, err = translate("Z", Z); err != nil {
		return nil, nil, nil, err
	}

	xs = dedupe(xs)
	ys = dedupe(ys)
	zs = dedupe(zs)

	// A conditioning node that is itself under test is dropped from Z.
	inXY := make(map[tsgraph.Node]bool, len(xs)+len(ys))
	for _, n := range xs {
		inXY[n] = true
	}
	for _, n := range ys {
		inXY[n] = true
	}
	filtered := zs[:0]
	for _, n := range zs {
		if !inXY[n] {
			filtered = append(filtered, n)
		}
	}
	zs = filtered

	hasPresent := false
	for _, n := range ys {
		if n.Lag == 0 {
			hasPresent = true
			break
		}
	}
	if !hasPresent {
		return nil, nil, nil, errors.New(errors.ErrCodeInvalidQuery, "one of the Y nodes must have zero lag")
	}

	return xs, ys, zs, nil
}

func dedupe(nodes []tsgraph.Node) []tsgraph.Node {
	seen := make(map[tsgraph.Node]bool, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// isDSep answers whether X and Y are d-separated given Z, memoizing per
// canonical query key. Concurrent callers of the same key share one
// computation.
func (o *Oracle) isDSep(X, Y, Z []tsgraph.Node) bool {
	key := queryKey(X, Y, Z)

	o.mu.RLock()
	sep, ok := o.dsepSets[key]
	o.mu.RUnlock()
	if ok {
		memoHitsTotal.Inc()
		o.logger.Debug("memo hit", "key", key, "dsep", sep)
		return sep
	}

	v, _, _ := o.group.Do(key, func() (any, error) {
		o.mu.RLock()
		sep, ok := o.dsepSets[key]
		o.mu.RUnlock()
		if ok {
			return sep, nil
		}

		if o.results != nil {
			if data, hit, err := o.results.Get(context.Background(), key); err == nil && hit && len(data) == 1 {
				sep := data[0] == '1'
				o.mu.Lock()
				o.dsepSets[key] = sep
				o.mu.Unlock()
				memoHitsTotal.Inc()
				o.logger.Debug("result cache hit", "key", key, "dsep", sep)
				return sep, nil
			}
		}

		sep = o.computeDSep(X, Y, Z)
		o.mu.Lock()
		o.dsepSets[key] = sep
		o.mu.Unlock()
		if o.results != nil {
			payload := []byte("0")
			if sep {
				payload = []byte("1")
			}
			if err := o.results.Set(context.Background(), key, payload, 0); err != nil {
				o.logger.Warn("result cache write failed", "key", key, "err", err)
			}
		}
		return sep, nil
	})
	return v.(bool)
}

// computeDSep resolves a sufficient horizon by non-repeating ancestor
// search, then runs the exact path search over the truncated graph.
func (o *Oracle) computeDSep(X, Y, Z []tsgraph.Node) bool {
	maxLag := search.MaxLagFromXYZ(o.g, X, Y, Z)
	o.maxLag.Store(int64(maxLag))
	o.searches.Add(1)
	searchesTotal.Inc()
	o.logger.Debug("d-separation search", "X", X, "Y", Y, "Z", Z, "max_lag", maxLag)

	_, found := search.HasOpenPath(o.g, X, Y, Z, maxLag, false)
	return !found
}

func queryKey(X, Y, Z []tsgraph.Node) string {
	return fmt.Sprintf("%v|%v|%v", X, Y, Z)
}

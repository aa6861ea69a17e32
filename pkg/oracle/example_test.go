package oracle_test

import (
	"fmt"

	"github.com/causalgo/tsoracle/pkg/oracle"
	"github.com/causalgo/tsoracle/pkg/tsgraph"
)

func ExampleOracle_RunTest() {
	// X0(t-1) -> X1(t) -> X2(t): the chain is blocked by its mediator.
	o, err := oracle.New(oracle.Config{
		Links: map[int][]tsgraph.Link{
			0: nil,
			1: {tsgraph.L(0, -1)},
			2: {tsgraph.L(1, 0)},
		},
	})
	if err != nil {
		panic(err)
	}

	X := []tsgraph.Node{{Var: 0, Lag: -1}}
	Y := []tsgraph.Node{{Var: 2}}

	val, pval, _ := o.RunTest(X, Y, nil, 0)
	fmt.Printf("unconditioned: val=%.0f pval=%.0f\n", val, pval)

	val, pval, _ = o.RunTest(X, Y, []tsgraph.Node{{Var: 1}}, 0)
	fmt.Printf("given X1:      val=%.0f pval=%.0f\n", val, pval)
	// Output:
	// unconditioned: val=1 pval=0
	// given X1:      val=0 pval=1
}

func ExampleOracle_GetShortestPath() {
	o, err := oracle.New(oracle.Config{
		Links: map[int][]tsgraph.Link{
			0: nil,
			1: {tsgraph.L(0, -1)},
			2: {tsgraph.L(1, -1)},
		},
	})
	if err != nil {
		panic(err)
	}

	res, err := o.GetShortestPath(
		[]tsgraph.Node{{Var: 0, Lag: -2}},
		[]tsgraph.Node{{Var: 2}},
		nil,
		oracle.PathOptions{},
	)
	if err != nil {
		panic(err)
	}

	fmt.Println("found:", res.Found)
	fmt.Println("path:", res.Path)
	// Output:
	// found: true
	// path: [(0, -2) (1, -1) (2, 0)]
}

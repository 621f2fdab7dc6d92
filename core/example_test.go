// SPDX-License-Identifier: MIT

package core_test

import (
	"fmt"

	"github.com/katalvlaran/wayfind/core"
)

// ExampleNewGraph builds a two-room snapshot and lists the neighbors of the entrance.
func ExampleNewGraph() {
	g, err := core.NewGraph(
		[]core.Location{
			{ID: "hall", IsEntrance: true},
			{ID: "exit", X: 10, IsExit: true},
		},
		[]core.Connection{
			{SourceID: "hall", TargetID: "exit", Weight: 10},
			{SourceID: "exit", TargetID: "hall", Weight: 10},
			{SourceID: "exit", TargetID: "roof", Weight: 3}, // unknown target, dropped
		},
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, nb := range g.Neighbors("hall") {
		fmt.Println(nb.ID, nb.Weight)
	}
	fmt.Println("dangling:", g.Stats().DanglingConnections)
	// Output:
	// exit 10
	// dangling: 1
}

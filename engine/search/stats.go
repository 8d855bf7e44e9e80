package search

import "fmt"

// Counter counts search nodes. Each recursive call of either engine, leaves
// included, increments it exactly once. The caller owns the counter and
// resets it before a top-level search; the engines never reset it.
type Counter struct {
	nodes uint64
}

// Reset sets the node count back to zero.
func (c *Counter) Reset() {
	c.nodes = 0
}

// Nodes returns the number of nodes visited since the last Reset.
func (c *Counter) Nodes() uint64 {
	return c.nodes
}

func (c *Counter) visit() {
	c.nodes++
}

func (c *Counter) String() string {
	return fmt.Sprintf("%d nodes", c.nodes)
}

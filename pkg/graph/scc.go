package graph

// SCC is a maximal strongly-connected subgraph, transient state used
// only within CPPSolver.
type SCC struct {
	Nodes []NodeID
}

// StronglyConnectedComponents partitions g's nodes into SCCs via
// Tarjan's algorithm, iterative (stack-based) to avoid recursion depth
// limits on large graphs — the same non-recursive discipline the
// teacher's CH contractor and bidirectional Dijkstra use for their own
// traversals.
func StronglyConnectedComponents(g *Graph) []SCC {
	n := g.NumNodes()
	if n == 0 {
		return nil
	}

	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	var stack []NodeID
	var sccs []SCC
	nextIndex := 0

	type frame struct {
		v      NodeID
		edgeIx int
	}

	for start := 0; start < n; start++ {
		if index[start] != -1 {
			continue
		}

		var call []frame
		call = append(call, frame{v: NodeID(start)})
		index[start] = nextIndex
		lowlink[start] = nextIndex
		nextIndex++
		stack = append(stack, NodeID(start))
		onStack[start] = true

		for len(call) > 0 {
			top := &call[len(call)-1]
			v := top.v
			outEdges := g.OutEdges(v)

			if top.edgeIx < len(outEdges) {
				w := g.Edge(outEdges[top.edgeIx]).To
				top.edgeIx++

				if index[w] == -1 {
					index[w] = nextIndex
					lowlink[w] = nextIndex
					nextIndex++
					stack = append(stack, w)
					onStack[w] = true
					call = append(call, frame{v: w})
				} else if onStack[w] {
					if index[w] < lowlink[v] {
						lowlink[v] = index[w]
					}
				}
				continue
			}

			// Done with v's edges; pop and propagate lowlink to caller.
			call = call[:len(call)-1]
			if len(call) > 0 {
				parent := &call[len(call)-1]
				if lowlink[v] < lowlink[parent.v] {
					lowlink[parent.v] = lowlink[v]
				}
			}

			if lowlink[v] == index[v] {
				var comp []NodeID
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == v {
						break
					}
				}
				sccs = append(sccs, SCC{Nodes: comp})
			}
		}
	}

	return sccs
}

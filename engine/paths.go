// Package engine executes parsed quest programs.
// paths.go enumerates every distinct route to an ending.
package engine

import (
	"github.com/avolkhin/questline/parser/quest"
)

// AllPaths exhaustively searches from the current node and records one path
// per ending reached. The visited set is forked per outgoing edge, so
// diamond-shaped graphs yield every distinct path instead of collapsing into
// one. Cost grows exponentially with branching; use AllPathsCapped on inputs
// you do not control.
func (in *Interpreter) AllPaths() [][]string {
	return in.AllPathsCapped(0)
}

// AllPathsCapped is AllPaths with an upper bound on recorded paths. A limit
// of zero means unbounded.
func (in *Interpreter) AllPathsCapped(limit int) [][]string {
	var paths [][]string
	in.enumerate(in.state.CurrentNode, nil, map[string]bool{}, limit, &paths)
	return paths
}

func (in *Interpreter) enumerate(id string, trail []string, visited map[string]bool, limit int, paths *[][]string) {
	if limit > 0 && len(*paths) >= limit {
		return
	}
	if visited[id] {
		return
	}
	node, err := in.resolve(id)
	if err != nil {
		return
	}

	trail = append(trail, id)
	if node.Kind() == quest.KindEnding {
		*paths = append(*paths, append([]string(nil), trail...))
		return
	}

	for _, target := range quest.OutgoingEdges(node) {
		// Fork the visited set per branch; a shared set would merge
		// converging routes into a single path.
		fork := make(map[string]bool, len(visited)+1)
		for k := range visited {
			fork[k] = true
		}
		fork[id] = true
		in.enumerate(target, trail, fork, limit, paths)
	}
}

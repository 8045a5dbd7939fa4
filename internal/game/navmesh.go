package game

import "container/heap"

// --- A* pathfinding ---

type pathNode struct {
	cell   Cell
	g, h   float64
	seq    int // insertion order, breaks f ties FIFO
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// FindPath returns the cheapest 4-connected route from start to goal, both
// included. Entering a cell costs 1 + riskWeight*risk(cell). When the goal
// cannot be reached the result is exactly [start]; callers treat a length-1
// path as "no progress possible". A nil risk field means zero risk.
func FindPath(g *Grid, start, goal Cell, rf *RiskField, riskWeight float64) []Cell {
	if start == goal || !g.InBounds(start) || !g.Passable(goal) {
		return []Cell{start}
	}

	n := g.Size()
	best := make([]float64, n)
	closed := make([]bool, n)
	for i := range best {
		best[i] = -1
	}

	seq := 0
	root := &pathNode{cell: start, h: float64(start.Manhattan(goal))}
	ol := &openList{root}
	heap.Init(ol)
	best[g.Index(start)] = 0

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.cell == goal {
			return buildPath(cur)
		}
		k := g.Index(cur.cell)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range neighbours4 {
			next := cur.cell.Add(d)
			if !g.Passable(next) {
				continue
			}
			nk := g.Index(next)
			if closed[nk] {
				continue
			}
			cost := cur.g + 1 + riskWeight*rf.At(next)
			if best[nk] >= 0 && cost >= best[nk] {
				continue
			}
			best[nk] = cost
			seq++
			heap.Push(ol, &pathNode{
				cell:   next,
				g:      cost,
				h:      float64(next.Manhattan(goal)),
				seq:    seq,
				parent: cur,
			})
		}
	}
	return []Cell{start}
}

func buildPath(end *pathNode) []Cell {
	var cells []Cell
	for n := end; n != nil; n = n.parent {
		cells = append(cells, n.cell)
	}
	// Reverse
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

// FindNearestSafeCell runs a breadth-first search from start over passable
// cells and returns the first one whose risk is at most maxRisk. Cells more
// than radius hops out are still tested but not expanded, so the search
// reaches radius+1.
func FindNearestSafeCell(g *Grid, start Cell, rf *RiskField, maxRisk float64, radius int) (Cell, bool) {
	if !g.InBounds(start) {
		return start, false
	}
	seen := make([]bool, g.Size())
	seen[g.Index(start)] = true
	queue := []Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if rf.At(cur) <= maxRisk {
			return cur, true
		}
		if cur.Manhattan(start) > radius {
			continue
		}
		for _, d := range neighbours4 {
			next := cur.Add(d)
			if !g.Passable(next) || seen[g.Index(next)] {
				continue
			}
			seen[g.Index(next)] = true
			queue = append(queue, next)
		}
	}
	return start, false
}

package engine

// searchState is one node of the path search: a cell reached by moving in dir after turns bends
type searchState struct {
	pos    Position
	dir    Direction
	turns  int
	parent int
}

// Step returns the neighbouring position in direction d
func (p Position) Step(d Direction) Position {
	delta := directionDeltas[d]
	return Position{Row: p.Row + delta.Row, Col: p.Col + delta.Col}
}

// IsConnectable reports whether start and end are joined by a 4-directional path with at most
// MaxTurns bends that crosses only empty cells. The end cell may be occupied.
func (b *Board) IsConnectable(start, end Position) bool {
	_, ok := b.FindPath(start, end)
	return ok
}

// FindPath runs a depth-first search from start to end and returns the path's waypoints
// (start, each corner, end). Every (cell, direction, turns) state is expanded at most once,
// so a search visits at most rows*cols*4*(MaxTurns+1) states.
func (b *Board) FindPath(start, end Position) ([]Position, bool) {
	if !b.InBounds(start) || !b.InBounds(end) || start == end {
		return nil, false
	}

	var path []Position
	b.search(start, func(p Position) bool { return p == end }, func(trail []searchState, i int) bool {
		path = waypoints(trail, i)
		return false
	})
	return path, path != nil
}

// ConnectableFrom returns every occupied cell holding start's identity that start can reach
func (b *Board) ConnectableFrom(start Position) []Position {
	if !b.InBounds(start) || b.IsEmpty(start) {
		return nil
	}
	identity := b.At(start).Identity
	isMatch := func(p Position) bool {
		cell := b.At(p)
		return cell.Occupied && cell.Identity == identity
	}

	seen := make(map[Position]bool)
	var found []Position
	b.search(start, isMatch, func(trail []searchState, i int) bool {
		if p := trail[i].pos; !seen[p] {
			seen[p] = true
			found = append(found, p)
		}
		return true
	})
	return found
}

// search explores from start through empty cells. A step is legal when the neighbour is in
// bounds and either empty or a target. Target states are reported to visit and never expanded;
// the search stops when visit returns false.
func (b *Board) search(start Position, isTarget func(Position) bool, visit func(trail []searchState, i int) bool) {
	visited := make([]bool, len(b.cells)*len(directionDeltas)*(MaxTurns+1))
	trail := []searchState{{pos: start, dir: NoDirection, parent: -1}}
	stack := []int{0}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cur := trail[i]

		if i != 0 && isTarget(cur.pos) {
			if !visit(trail, i) {
				return
			}
			continue
		}

		for d := Up; d <= Right; d++ {
			next := cur.pos.Step(d)
			if !b.InBounds(next) || next == start {
				continue
			}
			if !b.IsEmpty(next) && !isTarget(next) {
				continue
			}

			turns := cur.turns
			if cur.dir != NoDirection && d != cur.dir {
				turns++
			}
			if turns > MaxTurns {
				continue
			}

			key := b.stateKey(next, d, turns)
			if visited[key] {
				continue
			}
			visited[key] = true

			trail = append(trail, searchState{pos: next, dir: d, turns: turns, parent: i})
			stack = append(stack, len(trail)-1)
		}
	}
}

func (b *Board) stateKey(pos Position, d Direction, turns int) int {
	return (b.index(pos)*len(directionDeltas)+int(d))*(MaxTurns+1) + turns
}

// waypoints walks parent links back from trail[last] and keeps the start, the corners and the end
func waypoints(trail []searchState, last int) []Position {
	var chain []searchState
	for i := last; i >= 0; i = trail[i].parent {
		chain = append(chain, trail[i])
	}
	// chain runs end -> start; reverse it
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}

	points := []Position{chain[0].pos}
	for k := 1; k < len(chain)-1; k++ {
		if chain[k+1].dir != chain[k].dir {
			points = append(points, chain[k].pos)
		}
	}
	return append(points, chain[len(chain)-1].pos)
}

// Hint returns one same-identity pair that is currently connectable
func (b *Board) Hint() (Position, Position, bool) {
	var found [2]Position
	ok := false
	b.eachConnectablePair(func(a, c Position) bool {
		found = [2]Position{a, c}
		ok = true
		return false
	})
	return found[0], found[1], ok
}

// AvailableMoves counts the same-identity pairs that are currently connectable
func (b *Board) AvailableMoves() int {
	count := 0
	b.eachConnectablePair(func(Position, Position) bool {
		count++
		return true
	})
	return count
}

// IsStuck is true when tokens remain but no pair can be removed
func (b *Board) IsStuck() bool {
	if b.IsSolved() {
		return false
	}
	_, _, ok := b.Hint()
	return !ok
}

// eachConnectablePair calls fn for every connectable same-identity pair (a before c in row-major
// order) until fn returns false
func (b *Board) eachConnectablePair(fn func(a, c Position) bool) {
	for _, tok := range b.Tokens() {
		from := b.index(tok.Position)
		for _, other := range b.ConnectableFrom(tok.Position) {
			if b.index(other) < from {
				continue
			}
			if !fn(tok.Position, other) {
				return
			}
		}
	}
}

package game

import "chosenoffset.com/raycaster/internal/raycast"

// Snapshot is a copy of the per-frame state, safe to read from other goroutines.
type Snapshot struct {
	Frame     uint64     `json:"frame"`
	FPS       int        `json:"fps"`
	Position  [2]float32 `json:"position"`
	Direction [2]float32 `json:"direction"`
	Plane     [2]float32 `json:"plane"`
	Center    CenterHit  `json:"center"`
}

// CenterHit summarizes the ray cast through the middle column.
type CenterHit struct {
	ID       uint32  `json:"id"`
	Cell     [2]int  `json:"cell"`
	Side     string  `json:"side"`
	Distance float32 `json:"distance"`
	Escaped  bool    `json:"escaped"`
}

// Snapshot returns the state published by the last drawn frame.
func (g *Game) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot
}

func (g *Game) publish(center raycast.Hit) {
	s := Snapshot{
		Frame:     g.frame,
		FPS:       g.fps.Last(),
		Position:  [2]float32{g.Camera.Position.X, g.Camera.Position.Y},
		Direction: [2]float32{g.Camera.Direction.X, g.Camera.Direction.Y},
		Plane:     [2]float32{g.Camera.Plane.X, g.Camera.Plane.Y},
		Center: CenterHit{
			ID:      center.ID,
			Cell:    [2]int{center.Cell.X, center.Cell.Y},
			Side:    center.Side.String(),
			Escaped: center.Escaped,
		},
	}
	// Escaped rays have an infinite distance, which JSON cannot carry.
	if !center.Escaped {
		s.Center.Distance = center.PerpDist
	}

	g.mu.Lock()
	g.snapshot = s
	g.mu.Unlock()
}

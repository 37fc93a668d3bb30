// Package debug serves the running game's state over HTTP and WebSocket.
// It only reads: snapshots come from the game under its lock and the world is
// never modified after startup.
package debug

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"chosenoffset.com/raycaster/internal/game"
	"chosenoffset.com/raycaster/internal/logger"
	"chosenoffset.com/raycaster/internal/world"
)

const shutdownTimeout = 5 * time.Second

// StateSource provides the latest per-frame snapshot.
type StateSource interface {
	Snapshot() game.Snapshot
}

// WorldSource is the read-only grid exposed on /debug/world.
type WorldSource interface {
	Size() int
	Cells() []uint32
	Entities() []world.WallEntity
}

// Server exposes /health, /debug/state, /debug/world and the /ws stream.
type Server struct {
	State    StateSource
	World    WorldSource
	Addr     string
	Interval time.Duration

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a debug server. Interval is the snapshot push period on /ws.
func New(state StateSource, w WorldSource, addr string, interval time.Duration) *Server {
	return &Server{
		State:    state,
		World:    w,
		Addr:     addr,
		Interval: interval,
		done:     make(chan struct{}),
	}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/debug/state", enableCORS(s.handleState))
	mux.HandleFunc("/debug/world", enableCORS(s.handleWorld))
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Run listens on Addr until ctx is cancelled, then shuts down and closes
// every open stream.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Debug server running on %s", s.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Log.Info("Debug server stopped")
	return nil
}

// Close stops all WebSocket streams. It is safe to call more than once.
func (s *Server) Close() {
	s.doneOnce.Do(func() { close(s.done) })
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.State.Snapshot())
}

// WorldDump is the /debug/world payload.
type WorldDump struct {
	Size     int          `json:"size"`
	Cells    []uint32     `json:"cells"` // row-major, size*size
	Entities []EntityDump `json:"entities"`
}

// EntityDump describes one registered wall.
type EntityDump struct {
	ID    uint32    `json:"id"`
	Kind  string    `json:"kind"`
	Start [2]uint32 `json:"start"`
	End   [2]uint32 `json:"end"`
	Color [4]uint8  `json:"color"`
}

func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	entities := s.World.Entities()
	dump := WorldDump{
		Size:     s.World.Size(),
		Cells:    s.World.Cells(),
		Entities: make([]EntityDump, 0, len(entities)),
	}
	for i, e := range entities {
		dump.Entities = append(dump.Entities, EntityDump{
			ID:    uint32(i + 1),
			Kind:  e.Kind.String(),
			Start: [2]uint32{e.Start.X, e.Start.Y},
			End:   [2]uint32{e.End.X, e.End.Y},
			Color: [4]uint8{e.Color.R, e.Color.G, e.Color.B, e.Color.A},
		})
	}
	writeJSON(w, dump)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Warn("failed to encode debug response")
	}
}

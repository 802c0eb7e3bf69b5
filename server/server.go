package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"go-notefall/debug"
	"go-notefall/midi"
	"go-notefall/player"
	"go-notefall/song"
)

const fps = 60

type ErrorResponse struct {
	Error string `json:"detail"`
}

type SongResponse struct {
	Session string `json:"session"`
	*song.Song
}

type StateResponse struct {
	Session string  `json:"session"`
	Speed   float64 `json:"speed"`
	Min     float64 `json:"progressMin"`
	player.Frame
}

type SeekRequest struct {
	Progress *float64 `json:"progress"`
}

type SpeedRequest struct {
	Speed *float64 `json:"speed"`
}

// Server exposes one scheduler over HTTP. A ticker drives the clock, handlers
// only change its state.
type Server struct {
	session string
	start   time.Time
	out     *midi.Output

	mu    sync.Mutex
	sched *player.Scheduler
	frame player.Frame
}

// New creates a server for s. out may be nil.
func New(s *song.Song, cfg player.Config, out *midi.Output) (*Server, error) {
	sched, err := player.New(s, cfg)
	if err != nil {
		return nil, err
	}
	srv := &Server{
		session: uuid.New().String(),
		start:   time.Now(),
		out:     out,
		sched:   sched,
	}
	srv.frame = sched.Tick(0)
	return srv, nil
}

// Session identifies this server run
func (s *Server) Session() string { return s.session }

// Step advances the clock to now seconds and plays the frame
func (s *Server) Step(now float64) player.Frame {
	s.mu.Lock()
	s.frame = s.sched.Tick(now)
	f := s.frame
	s.mu.Unlock()

	if s.out != nil {
		if err := s.out.Apply(f); err != nil {
			debug.Log("midi", "apply: %v", err)
		}
	}
	return f
}

// Run ticks the scheduler until ctx is done
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / fps)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.out != nil {
				s.out.Panic()
			}
			return
		case <-ticker.C:
			s.Step(time.Since(s.start).Seconds())
		}
	}
}

// Handler returns the routes wrapped in CORS for browser clients
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/song", s.handleSong).Methods("GET")
	router.HandleFunc("/state", s.handleState).Methods("GET")
	router.HandleFunc("/play", s.handleControl(func(p *player.Scheduler) { p.Play() })).Methods("POST")
	router.HandleFunc("/pause", s.handleControl(func(p *player.Scheduler) { p.Pause() })).Methods("POST")
	router.HandleFunc("/toggle", s.handleControl(func(p *player.Scheduler) { p.Toggle() })).Methods("POST")
	router.HandleFunc("/seek", s.handleSeek).Methods("POST")
	router.HandleFunc("/speed", s.handleSpeed).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(router)
}

// ListenAndServe serves on addr and ticks the clock until ctx is done
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.Handler()}

	go s.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		hs.Shutdown(shutdown)
	}()

	debug.Log("server", "listening on %s session=%s", addr, s.session)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) state() StateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateResponse{
		Session: s.session,
		Speed:   s.sched.Speed(),
		Min:     s.sched.ProgressMin(),
		Frame:   s.frame,
	}
}

func (s *Server) handleSong(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SongResponse{Session: s.session, Song: s.sched.Song()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleControl(fn func(*player.Scheduler)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		fn(s.sched)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, s.state())
	}
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req SeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "could not decode request body: "+err.Error())
		return
	}
	if req.Progress == nil {
		writeError(w, http.StatusBadRequest, "progress is required")
		return
	}

	s.mu.Lock()
	s.sched.Seek(*req.Progress)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req SpeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "could not decode request body: "+err.Error())
		return
	}
	if req.Speed == nil {
		writeError(w, http.StatusBadRequest, "speed is required")
		return
	}

	s.mu.Lock()
	s.sched.SetSpeed(*req.Speed)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.state())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debug.Log("server", "encode: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

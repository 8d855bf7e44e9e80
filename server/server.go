// Package server exposes the search engines over HTTP and websocket. It is
// stateless: every request carries the position to analyze.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"termtactoe/engine/local"
	"termtactoe/engine/search"
	"termtactoe/types"
)

var (
	errBadRequest = errors.New("bad request")
	errTimeout    = errors.New("search timed out")
)

const shutdownTimeout = 5 * time.Second

type analyzeRequest struct {
	Board     *types.Board     `json:"board"`
	Side      types.Side       `json:"side"`
	Algorithm search.Algorithm `json:"algorithm,omitempty"`
	Depth     *int             `json:"depth,omitempty"`
}

type analyzeResponse struct {
	Row       int        `json:"row"`
	Col       int        `json:"col"`
	Move      string     `json:"move"`
	Score     int        `json:"score"`
	Nodes     uint64     `json:"nodes"`
	Terminal  bool       `json:"terminal"`
	Winner    types.Side `json:"winner"`
	Algorithm string     `json:"algorithm"`
	ElapsedMS int64      `json:"elapsed_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server answers analysis requests.
type Server struct {
	timeout  time.Duration
	router   chi.Router
	upgrader websocket.Upgrader
}

// New creates a server whose searches are cut off after timeout.
func New(timeout time.Duration) *Server {
	s := &Server{
		timeout:  timeout,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/ws/analyze", s.serveWS)

	s.router = r
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("analysis server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("graceful shutdown failed")
			return srv.Close()
		}
		log.Info().Msg("analysis server stopped")
		return nil
	})
	return g.Wait()
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload: " + err.Error()})
		return
	}
	resp, err := s.analyze(r.Context(), req)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var reply any
		var req analyzeRequest
		if err := json.Unmarshal(message, &req); err != nil {
			reply = errorResponse{Error: "invalid payload: " + err.Error()}
		} else if resp, err := s.analyze(r.Context(), req); err != nil {
			reply = errorResponse{Error: err.Error()}
		} else {
			reply = resp
		}
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

// analyze runs one search under the server timeout.
func (s *Server) analyze(ctx context.Context, req analyzeRequest) (analyzeResponse, error) {
	if req.Board == nil {
		return analyzeResponse{}, fmt.Errorf("%w: board is required", errBadRequest)
	}
	if !req.Side.Valid() {
		return analyzeResponse{}, fmt.Errorf("%w: side must be 1 or -1", errBadRequest)
	}
	opts := search.Options{Algorithm: req.Algorithm, Depth: search.FullDepth}
	if opts.Algorithm == 0 {
		opts.Algorithm = search.AlphaBeta
	}
	if req.Depth != nil {
		opts.Depth = *req.Depth
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var nodes search.Counter
	began := time.Now()
	res, err := search.BestMove(ctx, req.Board, req.Side, opts, &nodes)
	if errors.Is(err, context.DeadlineExceeded) {
		return analyzeResponse{}, fmt.Errorf("%w after %s", errTimeout, s.timeout)
	}
	if err != nil {
		return analyzeResponse{}, err
	}

	winner, _ := search.WinningLine(req.Board)
	return analyzeResponse{
		Row:       res.Move.Row,
		Col:       res.Move.Col,
		Move:      local.FormatMove(res.Move),
		Score:     res.Score,
		Nodes:     nodes.Nodes(),
		Terminal:  search.IsTerminal(req.Board),
		Winner:    winner,
		Algorithm: opts.Algorithm.String(),
		ElapsedMS: time.Since(began).Milliseconds(),
	}, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errTimeout):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// requestLogger logs each request through zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

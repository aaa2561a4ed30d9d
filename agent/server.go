package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/shrine-cli/shrine/shrine"
	"github.com/shrine-cli/shrine/shrine/gitvc"
)

const autocommitKey = ".config.git.autocommit"

// Server is the agent daemon: an HTTP server over a Unix-domain socket
// backed by a passphrase Cache, with a periodic sweeper goroutine
// (spec.md §4.H).
type Server struct {
	cache      *Cache
	socketPath string
	pidPath    string
	logger     *slog.Logger

	httpServer *http.Server
	listener   net.Listener

	stopOnce sync.Once
	stopped  chan struct{}
	ready    chan struct{}
}

// NewServer constructs a Server that will listen on socketPath and record
// its pid at pidPath, evicting cached passphrases older than ttl.
func NewServer(socketPath, pidPath string, ttl time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	s := &Server{
		cache:      NewCache(ttl),
		socketPath: socketPath,
		pidPath:    pidPath,
		logger:     logger,
		stopped:    make(chan struct{}),
		ready:      make(chan struct{}),
	}
	s.httpServer = &http.Server{Handler: s.router()}
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/pid", s.handlePid).Methods(http.MethodGet)
	r.HandleFunc("/passwords", s.handlePutPassword).Methods(http.MethodPut)
	r.HandleFunc("/passwords", s.handleClearPasswords).Methods(http.MethodDelete)
	r.HandleFunc("/keys", s.handleListKeys).Methods(http.MethodGet)
	r.HandleFunc("/keys/{key}", s.handleGetKey).Methods(http.MethodGet)
	r.HandleFunc("/keys/{key}", s.handleSetKey).Methods(http.MethodPut)
	r.HandleFunc("/keys/{key}", s.handleRemoveKey).Methods(http.MethodDelete)
	r.HandleFunc("/", s.handleShutdown).Methods(http.MethodDelete)
	return r
}

// Serve binds the Unix socket, reclaiming a stale pid/socket pair left by
// an ungracefully-terminated previous agent, then blocks serving requests
// and running the sweeper until Stop is called or a fatal accept error
// occurs (spec.md §4.H, §9 "at-most-one-agent enforcement").
func (s *Server) Serve(ctx context.Context) error {
	if err := claimPidFile(s.pidPath); err != nil {
		return err
	}

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("agent: removing stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		os.Remove(s.pidPath)
		return fmt.Errorf("agent: listen: %w", err)
	}
	s.listener = listener

	if err := os.WriteFile(s.pidPath, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("agent: writing pid file: %w", err)
	}

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go s.runSweeper(sweepCtx)

	s.logger.Info("agent listening", "socket", s.socketPath)
	close(s.ready)

	serveErr := make(chan error, 1)
	go func() { serveErr <- s.httpServer.Serve(listener) }()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case <-s.stopped:
		return s.shutdown()
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// WaitReady blocks until the server has bound its listener or ctx is
// done, whichever comes first.
func (s *Server) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop initiates graceful shutdown, as if the DELETE / endpoint had been
// hit.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.stopped) })
}

func (s *Server) shutdown() error {
	s.logger.Info("agent shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.httpServer.Shutdown(ctx)
	s.cache.Clear()
	os.Remove(s.socketPath)
	os.Remove(s.pidPath)
	return err
}

func (s *Server) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.cache.Sweep(now)
		}
	}
}

// claimPidFile checks whether a live process owns pidPath. If one does,
// it returns ErrAgentAlreadyRunning; if the file is absent or stale
// (its pid is not alive), it is removed so a fresh agent can start.
func claimPidFile(pidPath string) error {
	data, err := os.ReadFile(pidPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("agent: reading pid file: %w", err)
	}

	pid, err := strconv.Atoi(string(data))
	if err != nil {
		os.Remove(pidPath)
		return nil
	}

	if err := syscall.Kill(pid, 0); err == nil {
		return ErrAgentAlreadyRunning
	}

	os.Remove(pidPath)
	return nil
}

func (s *Server) handlePid(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "%d", os.Getpid())
}

func (s *Server) handlePutPassword(w http.ResponseWriter, r *http.Request) {
	var req putPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid-request", nil, "")
		return
	}
	s.cache.Set(req.UUID, []byte(req.Password))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearPasswords(w http.ResponseWriter, r *http.Request) {
	s.cache.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
	s.Stop()
}

func (s *Server) handleGetKey(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	key := mux.Vars(r)["key"]

	open, _, err := s.openForRead(w, path)
	if err != nil {
		return
	}

	secret, err := open.Get(key)
	if err != nil {
		if shrine.IsKeyNotFound(err) {
			writeErrorStatus(w, http.StatusNotFound, "key-not-found", nil, "")
			return
		}
		writeErrorStatus(w, http.StatusInternalServerError, "read", nil, path)
		return
	}

	writeJSON(w, http.StatusOK, keyResponse{Secret: string(secret.Bytes()), Mode: int(secret.Mode())})
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	private := r.URL.Query().Get("private") == "true"

	open, _, err := s.openForRead(w, path)
	if err != nil {
		return
	}

	var keys []string
	if private {
		keys = open.KeysPrivate()
	} else {
		keys = open.Keys()
	}
	writeJSON(w, http.StatusOK, keysResponse{Keys: keys})
}

func (s *Server) handleSetKey(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	key := mux.Vars(r)["key"]

	var req keyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid-request", nil, "")
		return
	}

	open, id, err := s.openForWrite(w, path)
	if err != nil {
		return
	}

	if err := open.Set(key, []byte(req.Secret), shrine.Mode(req.Mode)); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid-key", nil, "")
		return
	}

	if err := s.closeAndPersist(open, path, id); err != nil {
		writeErrorStatus(w, http.StatusInternalServerError, "write", nil, path)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveKey(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	key := mux.Vars(r)["key"]

	open, id, err := s.openForWrite(w, path)
	if err != nil {
		return
	}

	removed := open.Rm(key)

	if err := s.closeAndPersist(open, path, id); err != nil {
		writeErrorStatus(w, http.StatusInternalServerError, "write", nil, path)
		return
	}

	writeJSON(w, http.StatusOK, rmResponse{Removed: removed})
}

// openForRead loads and opens the shrine at path, writing the appropriate
// error response and returning a non-nil error if anything fails.
func (s *Server) openForRead(w http.ResponseWriter, path string) (*shrine.LocalOpen, uuid.UUID, error) {
	loaded, err := shrine.LoadFromPath(path)
	if err != nil {
		if shrine.IsFileNotFound(err) {
			writeErrorStatus(w, http.StatusNotFound, "file-not-found", nil, path)
		} else {
			writeErrorStatus(w, http.StatusInternalServerError, "read", nil, path)
		}
		return nil, uuid.Nil, err
	}

	closed := loaded.Closed
	id := closed.UUID()

	if !closed.RequiresPassword() {
		open, err := closed.OpenClear()
		if err != nil {
			writeErrorStatus(w, http.StatusInternalServerError, "read", nil, path)
			return nil, id, err
		}
		return open, id, nil
	}

	password, ok := s.cache.Get(id)
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "unauthorized", &id, "")
		return nil, id, shrine.ErrUnauthorized
	}
	defer zeroize(password)

	open, err := closed.OpenAes(password)
	if err != nil {
		writeErrorStatus(w, http.StatusForbidden, "forbidden", &id, "")
		return nil, id, err
	}
	return open, id, nil
}

func (s *Server) openForWrite(w http.ResponseWriter, path string) (*shrine.LocalOpen, uuid.UUID, error) {
	return s.openForRead(w, path)
}

// closeAndPersist closes open back to its serialized form and writes it
// to path, driving the git collaborator afterward if the shrine's
// private config key enables auto-commit (spec.md §9 "Git collaborator").
// A failed auto-commit is logged as a warning and does not fail the call;
// the persisted file is kept.
func (s *Server) closeAndPersist(open *shrine.LocalOpen, path string, id uuid.UUID) error {
	closed, err := open.Close()
	if err != nil {
		return err
	}
	if err := closed.Persist(path); err != nil {
		return err
	}

	if autocommit, err := open.Get(autocommitKey); err == nil && string(autocommit.Bytes()) == "true" {
		dir := dirOf(path)
		if gitvc.IsRepo(dir) {
			if err := gitvc.CommitAuto(dir, path); err != nil {
				s.logger.Warn("git auto-commit failed", "path", path, "error", err)
			}
		}
	}

	return nil
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorStatus(w http.ResponseWriter, status int, kind string, id *uuid.UUID, path string) {
	writeJSON(w, status, errorResponse{Error: kind, UUID: id, Path: path})
}

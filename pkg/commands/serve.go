package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"TimelineViewer/pkg/graphing"
	"TimelineViewer/pkg/logutil"
	"TimelineViewer/pkg/timeline"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve <log-file>",
		Aliases: []string{"s"},
		Short:   "Serve the charts over HTTP",
		Long: `Serve the timeline charts for a log file over HTTP.

Endpoints:
  /        Chart page; min/max query params adjust the window
  /data    Computed view as JSON (labels, cells, series)

With --watch the log file is reloaded whenever it changes; the window
resets to the full range on each reload.

Example:
  timeline serve run.jsonl --addr :9090
  timeline serve monitor_logs/1234.jsonl --watch`,
		Args: cobra.ExactArgs(1),
		RunE: runServe,
	}

	Cfg.AddWindowFlags(cmd)
	Cfg.AddServeFlags(cmd)

	return cmd
}

// viewServer serializes all viewer access: loads, window changes and
// recomputations happen one at a time, matching the single-threaded
// model of the pipeline.
type viewServer struct {
	mu     sync.Mutex
	viewer *timeline.Viewer
	path   string
	title  string
	logger *zap.Logger
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logutil.GetLogger()

	viewer, err := loadViewer(args[0])
	if err != nil {
		return err
	}

	server := &viewServer{
		viewer: viewer,
		path:   args[0],
		title:  Cfg.Title,
		logger: logger,
	}

	if Cfg.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer watcher.Close()
		if err := watcher.Add(server.path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", server.path, err)
		}
		go server.watchLoop(watcher)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", server.handleCharts)
	mux.HandleFunc("/data", server.handleData)

	logger.Info("starting server",
		zap.String("addr", Cfg.Addr),
		zap.String("log", server.path),
		zap.Bool("watch", Cfg.Watch),
	)
	return http.ListenAndServe(Cfg.Addr, mux)
}

// watchLoop reloads the log on every write. Loads are tokenized so a
// slow read that finishes after a newer change started is discarded.
func (s *viewServer) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (s *viewServer) reload() {
	s.mu.Lock()
	tok := s.viewer.StartLoad()
	s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("reload failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	diags, applied := s.viewer.CompleteLoad(tok, data)
	loaded := s.viewer.Len()
	s.mu.Unlock()

	if !applied {
		return
	}
	s.logger.Info("log reloaded",
		zap.String("path", s.path),
		zap.Int("snapshots", loaded),
		zap.Int("skipped", len(diags)),
	)
}

// applyWindow updates the window from min/max query params, when
// present. Values are clamped to be non-negative; min above max is
// allowed and simply yields empty charts.
func (s *viewServer) applyWindow(r *http.Request) error {
	for _, bound := range []struct {
		name string
		set  func(int)
	}{
		{"min", s.viewer.SetMin},
		{"max", s.viewer.SetMax},
	} {
		raw := r.URL.Query().Get(bound.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", bound.name, raw)
		}
		bound.set(v)
	}
	return nil
}

func (s *viewServer) handleCharts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.applyWindow(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := graphing.WritePage(w, s.viewer.Compute(), s.title); err != nil {
		s.logger.Warn("render failed", zap.Error(err))
	}
}

func (s *viewServer) handleData(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.applyWindow(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSONResponse(w, s.viewer.Compute())
}

func writeJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		http.Error(w, fmt.Sprintf("JSON error: %v", err), http.StatusInternalServerError)
	}
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/capex-close/internal/agent"
	"github.com/sells-group/capex-close/internal/closing"
	"github.com/sells-group/capex-close/internal/dataload"
	"github.com/sells-group/capex-close/internal/export"
	"github.com/sells-group/capex-close/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the close engine over HTTP",
	Long:  "Exposes the engine tools and close-package downloads over HTTP for the review UI. The assistant itself stays in the chat command; this surface is tool calls only.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// newRouter builds the HTTP surface: health, tool dispatch, and close
// package downloads.
func newRouter(st store.Store) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "period": cfg.Close.Period})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/tools/{name}", func(w http.ResponseWriter, req *http.Request) {
			handleTool(w, req, st)
		})
		r.Get("/close/package", handleWorkbook)
		r.Get("/close/onestream.csv", handleGridCSV)
	})

	return r
}

// handleTool dispatches one engine tool by name. Each request gets its own
// session so table edits between requests are always picked up.
func handleTool(w http.ResponseWriter, req *http.Request, st store.Store) {
	name := chi.URLParam(req, "name")

	input, err := readToolInput(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s, err := newSession()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	registry := agent.NewRegistry(s, st)
	result, isError := registry.Invoke(req.Context(), name, input)

	status := http.StatusOK
	if isError {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(result))
}

func readToolInput(req *http.Request) (json.RawMessage, error) {
	defer req.Body.Close()

	var input json.RawMessage
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		// An empty body means default inputs.
		if errors.Is(err, io.EOF) {
			return json.RawMessage(`{}`), nil
		}
		return nil, eris.Wrap(err, "serve: decode tool input")
	}
	return input, nil
}

// handleWorkbook streams the five-sheet close package as a download.
func handleWorkbook(w http.ResponseWriter, req *http.Request) {
	s, pkg, ok := buildPackage(w, req)
	if !ok {
		return
	}

	dir, err := os.MkdirTemp("", "capex-close-export")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	name := fmt.Sprintf("close-package-%s.xlsx", s.Period())
	path := filepath.Join(dir, name)
	if err := export.WriteWorkbook(pkg, path); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, req, path)
}

// handleGridCSV streams the OneStream load grid as a CSV download.
func handleGridCSV(w http.ResponseWriter, req *http.Request) {
	s, pkg, ok := buildPackage(w, req)
	if !ok {
		return
	}

	dir, err := os.MkdirTemp("", "capex-close-export")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	name := fmt.Sprintf("onestream-load-%s.csv", s.Period())
	path := filepath.Join(dir, name)
	if err := export.WriteGridCSV(pkg.Grid, path); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, req, path)
}

func buildPackage(w http.ResponseWriter, req *http.Request) (*closing.Session, export.ClosePackage, bool) {
	bu := req.URL.Query().Get("business_unit")
	if bu == "" {
		bu = dataload.BUAll
	}

	s, err := newSession()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, export.ClosePackage{}, false
	}

	pkg, err := export.BuildClosePackage(s, bu)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, export.ClosePackage{}, false
	}
	return s, pkg, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/w-h-a/finrag/internal/service/analyst"
	"github.com/w-h-a/finrag/loader"
	"github.com/w-h-a/finrag/retriever"
	"github.com/w-h-a/finrag/server"
	"github.com/w-h-a/finrag/store"
)

const maxUploadBytes = 32 << 20

type httpServer struct {
	options server.Options
	analyst *analyst.Service
	handler http.Handler
}

func (s *httpServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.options.Address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(shutdownCtx, "shutdown did not complete cleanly", "error", err)
		}
	}()

	slog.InfoContext(ctx, "http server listening", "address", s.options.Address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *httpServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *httpServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	ownerId := mux.Vars(r)["owner"]

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	receipt, err := s.analyst.Upload(r.Context(), file, header.Filename, ownerId)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"owner_id":   receipt.OwnerId,
		"session_id": receipt.SessionId,
		"source":     receipt.Source,
		"chunks":     receipt.Chunks,
	})
}

func (s *httpServer) handleQuery(w http.ResponseWriter, r *http.Request) {
	ownerId := mux.Vars(r)["owner"]

	var body struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be json")
		return
	}

	if len(strings.TrimSpace(body.Question)) == 0 {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := s.analyst.Ask(r.Context(), ownerId, body.Question)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	citations := make([]map[string]any, 0, len(answer.Citations))
	for _, citation := range answer.Citations {
		citations = append(citations, map[string]any{
			"source": citation.Source,
			"page":   citation.Page,
			"score":  citation.Score,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":    answer.Text,
		"intent":    string(answer.Intent),
		"grounded":  answer.Grounded,
		"citations": citations,
	})
}

func (s *httpServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *httpServer) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	var unsupported *loader.UnsupportedFormatError
	if errors.As(err, &unsupported) {
		return http.StatusUnsupportedMediaType
	}

	if errors.Is(err, retriever.ErrMissingSession) {
		return http.StatusNotFound
	}

	var writeErr *store.WriteError
	if errors.As(err, &writeErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func NewServer(service *analyst.Service, opts ...server.Option) server.Server {
	options := server.NewOptions(opts...)

	if service == nil {
		panic("analyst service is required")
	}

	s := &httpServer{
		options: options,
		analyst: service,
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/owners/{owner}/documents", s.handleUpload).Methods(http.MethodPost)
	router.HandleFunc("/owners/{owner}/queries", s.handleQuery).Methods(http.MethodPost)

	var handler http.Handler = router
	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}

	s.handler = otelhttp.NewHandler(handler, "finrag")

	return s
}

package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdesk/internal/domain"
	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
	"github.com/kailas-cloud/ragdesk/internal/logger"
	healthuc "github.com/kailas-cloud/ragdesk/internal/usecase/health"
)

// Response texts the frontend matches on.
const (
	msgSubmitOK       = "Data processed successfully."
	msgSubmitFailed   = "Data processing failed."
	msgDomainStored   = "Domain stored succesfully"
	msgDomainMissing  = "Domain name is missing. Document must not exist"
	msgNoDocuments    = "No relevant documents found."
	msgInvalidBody    = "Invalid request body."
	msgInvalidDomain  = "Invalid domain name."
	msgInvalidRequest = "Invalid request."
	msgInternal       = "An error occured"
)

// keyNoDocuments is the 404 body key of /ask; the trailing colon is part of the contract.
const keyNoDocuments = "response:"

// errorHandler tries to handle an error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers of the question-answering API.
type Server struct {
	ingest        Ingester
	retrieve      Retriever
	answer        Answerer
	sessions      Sessions
	health        HealthChecker
	logger        *zap.Logger
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. health may be nil.
func NewServer(
	ingest Ingester,
	retrieve Retriever,
	answer Answerer,
	sessions Sessions,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:       ingest,
		retrieve:     retrieve,
		answer:       answer,
		sessions:     sessions,
		health:       health,
		logger:       logger,
		maxBodyBytes: 10 << 20,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidDomain, http.StatusBadRequest, msgInvalidDomain),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, msgInvalidRequest),
	}
	return s
}

// WithMaxBodyBytes limits request bodies.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

type submitRequest struct {
	Request *struct {
		Document   any `json:"document"`
		DomainName any `json:"domain_name"`
	} `json:"request"`
}

type askRequest struct {
	Question any `json:"question"`
	Domain   any `json:"domain"`
}

type captureDomainRequest struct {
	DomainName any `json:"domain_name"`
}

// Submit handles POST /submit.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := s.decode(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody, err)
		return
	}
	if req.Request == nil {
		s.handleError(w, r, fmt.Errorf("%w: request object is missing", domain.ErrInvalidRequest))
		return
	}

	docs, err := parseDocuments(req.Request.Document)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	d, err := domainname.Parse(req.Request.DomainName)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	ctx := logger.With(r.Context(), zap.String("domain", d.String()))
	s.remember(ctx, d)

	res := s.ingest.Ingest(ctx, d, docs)
	if !res.OK {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": msgSubmitFailed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msgSubmitOK})
}

// Ask handles POST /ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := s.decode(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgInvalidBody})
		return
	}

	d, err := domainname.Parse(req.Domain)
	if err != nil {
		logger.FromContext(r.Context()).Warn("ask without a usable domain", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgDomainMissing})
		return
	}
	question, ok := req.Question.(string)
	if !ok || strings.TrimSpace(question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Question is missing."})
		return
	}

	ctx := logger.With(r.Context(), zap.String("domain", d.String()))
	res := s.retrieve.Retrieve(ctx, d, question)
	if res.IsEmpty() {
		writeJSON(w, http.StatusNotFound, map[string]string{keyNoDocuments: msgNoDocuments})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": s.answer.Answer(ctx, res.Context(), question)})
}

// CaptureDomain handles POST /capture_domain.
func (s *Server) CaptureDomain(w http.ResponseWriter, r *http.Request) {
	var req captureDomainRequest
	if err := s.decode(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	d, err := domainname.Parse(req.DomainName)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.remember(logger.With(r.Context(), zap.String("domain", d.String())), d)
	writeJSON(w, http.StatusOK, map[string]string{"message": msgDomainStored})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": healthuc.Healthy, "checks": map[string]string{}})
		return
	}

	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"status": report.Status, "checks": report.Checks})
}

// remember records d in the caller's session. Store failures are logged, never surfaced.
func (s *Server) remember(ctx context.Context, d domainname.Name) {
	id := SessionID(ctx)
	if id == "" {
		return
	}
	if err := s.sessions.Remember(ctx, id, d); err != nil {
		logger.FromContext(ctx).Warn("failed to record domain in session", zap.Error(err))
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// parseDocuments accepts a string or a list of strings.
func parseDocuments(raw any) ([]string, error) {
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: document list is empty", domain.ErrInvalidRequest)
		}
		docs := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: document[%d] must be a string", domain.ErrInvalidRequest, i)
			}
			docs[i] = s
		}
		return docs, nil
	case nil:
		return nil, fmt.Errorf("%w: document is missing", domain.ErrInvalidRequest)
	default:
		return nil, fmt.Errorf("%w: unsupported document type %T", domain.ErrInvalidRequest, raw)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string, err error) {
	writeJSON(w, status, map[string]string{"message": message, "error": err.Error()})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeMessage(w, status, message, err)
		return true
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("request rejected", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": msgInternal, "error": err.Error()})
}

package rpc

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"orgledger/native/authority"
	"orgledger/native/bounty"
	"orgledger/native/params"
	"orgledger/observability/metrics"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeNotFound       = -32021
	codeForbidden      = -32022
	codeConflict       = -32023
)

// Server exposes the engines over JSON-RPC 2.0. Mutating methods require the
// configured bearer token; read methods are open.
type Server struct {
	bounties  *bounty.Engine
	auths     *authority.Engine
	settings  *params.Store
	authToken string
	log       *slog.Logger
}

func NewServer(bounties *bounty.Engine, auths *authority.Engine, settings *params.Store, authToken string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		bounties:  bounties,
		auths:     auths,
		settings:  settings,
		authToken: strings.TrimSpace(authToken),
		log:       log,
	}
}

// Handler returns the HTTP handler serving the RPC endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	return mux
}

// Start serves the RPC endpoint on addr until the listener fails.
func (s *Server) Start(addr string) error {
	s.log.Info("starting JSON-RPC server", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeEngineError maps engine sentinel errors to RPC error codes.
func writeEngineError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, bounty.ErrBountyNotFound):
		writeError(w, http.StatusNotFound, id, codeNotFound, err.Error(), nil)
	case errors.Is(err, bounty.ErrNotAuthorized), errors.Is(err, authority.ErrNotOrg):
		writeError(w, http.StatusForbidden, id, codeForbidden, err.Error(), nil)
	case errors.Is(err, bounty.ErrWrongStatus), errors.Is(err, bounty.ErrAlreadySet):
		writeError(w, http.StatusConflict, id, codeConflict, err.Error(), nil)
	default:
		writeError(w, http.StatusBadRequest, id, codeServerError, err.Error(), nil)
	}
}

func decodeParams(req *RPCRequest, dst interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("expected exactly one parameter object")
	}
	decoder := json.NewDecoder(bytes.NewReader(req.Params[0]))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// statusRecorder captures the status ultimately written so the dispatch loop
// can report it to the metrics registry.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handle(rw http.ResponseWriter, r *http.Request) {
	started := time.Now()
	w := &statusRecorder{ResponseWriter: rw, status: http.StatusOK}
	method := ""
	defer func() {
		metrics.RPC().Observe(method, w.status, time.Since(started))
	}()

	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}
	method = req.Method

	handler, ok := s.routes()[req.Method]
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %s not found", req.Method), nil)
		return
	}
	if handler.authenticated {
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
	}
	handler.fn(w, req)
}

type route struct {
	authenticated bool
	fn            func(http.ResponseWriter, *RPCRequest)
}

func (s *Server) routes() map[string]route {
	return map[string]route{
		"bounty_create":            {true, s.handleBountyCreate},
		"bounty_get":               {false, s.handleBountyGet},
		"bounty_bindBadge":         {true, s.handleBountyBindBadge},
		"bounty_createBadge":       {true, s.handleBountyCreateBadge},
		"bounty_setParticipantCap": {true, s.handleBountySetParticipantCap},
		"bounty_setClosedList":     {true, s.handleBountySetClosedList},
		"bounty_setExternalCheck":  {true, s.handleBountySetExternalCheck},
		"bounty_addParticipants":   {true, s.handleBountyAddParticipants},
		"bounty_addReviewers":      {true, s.handleBountyAddReviewers},
		"bounty_signup":            {true, s.handleBountySignup},
		"bounty_cancelSignup":      {true, s.handleBountyCancelSignup},
		"bounty_submit":            {true, s.handleBountySubmit},
		"bounty_reviewStatus":      {true, s.handleBountyReviewStatus},
		"bounty_notifyTransfer":    {true, s.handleBountyNotifyTransfer},
		"bounty_withdraw":          {true, s.handleBountyWithdraw},
		"bounty_close":             {true, s.handleBountyClose},
		"bounty_cleanup":           {true, s.handleBountyCleanup},
		"auth_grant":               {true, s.handleAuthGrant},
		"auth_revoke":              {true, s.handleAuthRevoke},
		"auth_check":               {false, s.handleAuthCheck},
		"params_get":               {false, s.handleParamsGet},
		"params_set":               {true, s.handleParamsSet},
	}
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return &RPCError{Code: codeUnauthorized, Message: "RPC authentication token not configured"}
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing Authorization header"}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return &RPCError{Code: codeUnauthorized, Message: "Authorization header must use Bearer scheme"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid RPC credentials"}
	}
	return nil
}

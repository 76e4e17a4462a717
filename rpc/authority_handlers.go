package rpc

import (
	"net/http"
)

type authEditParams struct {
	Caller    string `json:"caller"`
	Org       string `json:"org"`
	Operation string `json:"operation"`
	Principal string `json:"principal"`
}

func (s *Server) handleAuthGrant(w http.ResponseWriter, req *RPCRequest) {
	var p authEditParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.auths.Grant(p.Caller, p.Org, p.Operation, p.Principal); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleAuthRevoke(w http.ResponseWriter, req *RPCRequest) {
	var p authEditParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.auths.Revoke(p.Caller, p.Org, p.Operation, p.Principal); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type authCheckParams struct {
	Org       string `json:"org"`
	Operation string `json:"operation"`
	Principal string `json:"principal"`
}

type authCheckResult struct {
	Authorized bool `json:"authorized"`
}

func (s *Server) handleAuthCheck(w http.ResponseWriter, req *RPCRequest) {
	var p authCheckParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	ok, err := s.auths.HasActionAuthority(p.Org, p.Operation, p.Principal)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, authCheckResult{Authorized: ok})
}

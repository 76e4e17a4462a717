package rpc

import (
	"fmt"
	"net/http"

	"orgledger/native/params"
)

type paramsGetParams struct {
	Name string `json:"name"`
}

type paramsGetResult struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
	Set   bool   `json:"set"`
}

func (s *Server) handleParamsGet(w http.ResponseWriter, req *RPCRequest) {
	var p paramsGetParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	var (
		value uint64
		ok    bool
		err   error
	)
	switch p.Name {
	case params.KeyFeeBasisPoints:
		value, ok, err = s.settings.FeeBasisPoints()
	case params.KeyMinPoolDepositBasisPoints:
		value, ok, err = s.settings.MinPoolDepositBasisPoints()
	default:
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, fmt.Sprintf("unknown setting %q", p.Name), nil)
		return
	}
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, paramsGetResult{Name: p.Name, Value: value, Set: ok})
}

type paramsSetParams struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

func (s *Server) handleParamsSet(w http.ResponseWriter, req *RPCRequest) {
	var p paramsSetParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	var err error
	switch p.Name {
	case params.KeyFeeBasisPoints:
		err = s.settings.SetFeeBasisPoints(p.Value)
	case params.KeyMinPoolDepositBasisPoints:
		err = s.settings.SetMinPoolDepositBasisPoints(p.Value)
	default:
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, fmt.Sprintf("unknown setting %q", p.Name), nil)
		return
	}
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

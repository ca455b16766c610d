package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/depositlabs/deposit-auditor/service"
	"github.com/depositlabs/deposit-auditor/util"
)

func (s *Server) handleGetDeposit(w http.ResponseWriter, r *http.Request) {
	index, err := util.StringToUint64(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, service.BadRequestWithError(fmt.Errorf("invalid deposit index: %w", err)))
		return
	}
	info, err := s.depositSvc.GetDeposit(index)
	if err != nil {
		if errors.Is(err, service.ErrDepositNotFound) {
			writeError(w, service.NotFoundWithError(err))
			return
		}
		writeError(w, service.InternalErrorWithError(err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.depositSvc.GetStatus()
	if err != nil {
		writeError(w, service.InternalErrorWithError(err))
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func writeError(w http.ResponseWriter, svcErr *service.Err) {
	writeJSON(w, int(svcErr.Code), svcErr)
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

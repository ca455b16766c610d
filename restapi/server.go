package restapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/depositlabs/deposit-auditor/logging"
	"github.com/depositlabs/deposit-auditor/service"
)

// Server serves audit results over HTTP while or after a run.
type Server struct {
	httpAddress string
	depositSvc  service.Deposit
	httpServer  *http.Server
}

func NewServer(address string, depositSvc service.Deposit) *Server {
	return &Server{
		httpAddress: address,
		depositSvc:  depositSvc,
	}
}

func (s *Server) Start() {
	go s.serve()
}

func (s *Server) serve() {
	router := mux.NewRouter()
	router.Path("/v1/deposit/{index}").Methods(http.MethodGet).HandlerFunc(s.handleGetDeposit)
	router.Path("/v1/status").Methods(http.MethodGet).HandlerFunc(s.handleGetStatus)
	s.httpServer = &http.Server{
		Addr:    s.httpAddress,
		Handler: router,
	}
	if err := s.httpServer.ListenAndServe(); err != nil {
		logging.Logger.Errorf("failed to listen and serve, err=%s", err.Error())
		panic(err)
	}
}

package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/depositlabs/deposit-auditor/logging"
)

var (
	AuditedBlockHeightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "audited_block_height",
		Help: "Highest block height covered by a fully audited chunk.",
	})

	AcceptedDepositCountGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "accepted_deposit_count",
		Help: "Number of distinct deposit records accepted by the contiguity validator.",
	})

	MetricsItems = []prometheus.Collector{
		AuditedBlockHeightGauge,
		AcceptedDepositCountGauge,
	}
)

const DefaultMetricsAddress = "0.0.0.0:9090"

type Metrics struct {
	httpAddress string
	registry    *prometheus.Registry
	httpServer  *http.Server
}

func NewMetrics(address string) *Metrics {
	return &Metrics{
		httpAddress: address,
		registry:    prometheus.NewRegistry(),
	}
}

func (m *Metrics) Start() {
	m.registry.MustRegister(MetricsItems...)
	go m.serve()
}

func (m *Metrics) serve() {
	router := mux.NewRouter()
	router.Path("/metrics").Handler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.httpServer = &http.Server{
		Addr:    m.httpAddress,
		Handler: router,
	}
	if err := m.httpServer.ListenAndServe(); err != nil {
		logging.Logger.Errorf("failed to listen and serve, err=%s", err.Error())
		panic(err)
	}
}

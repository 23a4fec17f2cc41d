package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

type Service struct {
	RoundsGenerated      *prometheus.CounterVec
	ResultsRecorded      prometheus.Counter
	TournamentsCompleted *prometheus.CounterVec
	PairingDuration      prometheus.Histogram
}

// NewHandler returns an http.Handler for the given Gatherer, or the default
// one when none is passed.
func NewHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the collectors. Without a registerer the
// default Prometheus registerer is used.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RoundsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_rounds_generated_total",
			Help: "Rounds persisted, including round-robin schedules, by format.",
		}, []string{"format"}),
		ResultsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_results_recorded_total",
			Help: "Match results submitted.",
		}),
		TournamentsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_completed_total",
			Help: "Tournaments finalized with placements, by format.",
		}, []string{"format"}),
		PairingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tournament_pairing_duration_seconds",
			Help:    "Time spent computing the pairings of one round.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}

	reg.MustRegister(
		s.RoundsGenerated,
		s.ResultsRecorded,
		s.TournamentsCompleted,
		s.PairingDuration,
	)

	return s
}

func (s *Service) IncRoundsGenerated(format string) {
	s.RoundsGenerated.WithLabelValues(format).Inc()
}

func (s *Service) IncResultsRecorded() {
	s.ResultsRecorded.Inc()
}

func (s *Service) IncTournamentsCompleted(format string) {
	s.TournamentsCompleted.WithLabelValues(format).Inc()
}

func (s *Service) ObservePairingDuration(seconds float64) {
	s.PairingDuration.Observe(seconds)
}

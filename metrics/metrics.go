package metrics

// Metrics is what the tournament service reports.
type Metrics interface {
	IncRoundsGenerated(format string)
	IncResultsRecorded()
	IncTournamentsCompleted(format string)
	ObservePairingDuration(seconds float64)
}

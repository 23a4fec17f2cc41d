package metrics

import "sync"

// Mock records calls for tests. It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	roundsGenerated      map[string]int
	resultsRecorded      int
	tournamentsCompleted map[string]int
	pairingDurations     []float64
}

func NewMock() *Mock {
	return &Mock{
		roundsGenerated:      make(map[string]int),
		tournamentsCompleted: make(map[string]int),
		pairingDurations:     make([]float64, 0),
	}
}

func (m *Mock) IncRoundsGenerated(format string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsGenerated[format]++
}

func (m *Mock) IncResultsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsRecorded++
}

func (m *Mock) IncTournamentsCompleted(format string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tournamentsCompleted[format]++
}

func (m *Mock) ObservePairingDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairingDurations = append(m.pairingDurations, seconds)
}

func (m *Mock) RoundsGenerated(format string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsGenerated[format]
}

func (m *Mock) ResultsRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsRecorded
}

func (m *Mock) TournamentsCompleted(format string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tournamentsCompleted[format]
}

func (m *Mock) PairingObservations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pairingDurations)
}

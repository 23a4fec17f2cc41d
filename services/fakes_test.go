package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/Dosada05/tournament-engine/metrics"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/storage"
)

// memDB backs every fake repository.
type memDB struct {
	mu           sync.Mutex
	tournaments  map[int]models.Tournament
	participants map[int][]models.Participant
	matches      []models.Match
	placements   map[int][]models.Placement
	nextMatchID  int
	commits      int
	rollbacks    int
}

func newMemDB() *memDB {
	return &memDB{
		tournaments:  make(map[int]models.Tournament),
		participants: make(map[int][]models.Participant),
		placements:   make(map[int][]models.Placement),
		nextMatchID:  1,
	}
}

func (db *memDB) addTournament(t models.Tournament, names ...string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tournaments[t.ID] = t
	ps := make([]models.Participant, len(names))
	for i, name := range names {
		ps[i] = models.Participant{ID: t.ID*100 + i + 1, Name: name}
	}
	db.participants[t.ID] = ps
}

func (db *memDB) tournament(id int) models.Tournament {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.tournaments[id]
}

func (db *memDB) matchesOf(tournamentID int) []models.Match {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]models.Match, 0)
	for _, m := range db.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out
}

func (db *memDB) insertRaw(m models.Match) {
	db.mu.Lock()
	defer db.mu.Unlock()
	m.ID = db.nextMatchID
	db.nextMatchID++
	db.matches = append(db.matches, m)
}

type snapshot struct {
	tournaments map[int]models.Tournament
	matches     []models.Match
	placements  map[int][]models.Placement
	nextMatchID int
}

func (db *memDB) snapshot() snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := snapshot{
		tournaments: make(map[int]models.Tournament, len(db.tournaments)),
		matches:     append([]models.Match(nil), db.matches...),
		placements:  make(map[int][]models.Placement, len(db.placements)),
		nextMatchID: db.nextMatchID,
	}
	for k, v := range db.tournaments {
		s.tournaments[k] = v
	}
	for k, v := range db.placements {
		s.placements[k] = v
	}
	return s
}

func (db *memDB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tournaments = s.tournaments
	db.matches = s.matches
	db.placements = s.placements
	db.nextMatchID = s.nextMatchID
	db.rollbacks++
}

type fakeTx struct{ db *memDB }

func (f fakeTx) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snap := f.db.snapshot()
	if err := fn(nil); err != nil {
		f.db.restore(snap)
		return err
	}
	f.db.mu.Lock()
	f.db.commits++
	f.db.mu.Unlock()
	return nil
}

type fakeTournamentRepo struct{ db *memDB }

func (r fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r fakeTournamentRepo) LockForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	r.db.tournaments[id] = t
	return nil
}

type fakeParticipantRepo struct{ db *memDB }

func (r fakeParticipantRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Participant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]models.Participant{}, r.db.participants[tournamentID]...), nil
}

type fakeMatchRepo struct {
	db        *memDB
	createErr error
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Match, error) {
	matches := r.db.matchesOf(tournamentID)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.matches {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, matches []*models.Match) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range matches {
		m.ID = r.db.nextMatchID
		r.db.nextMatchID++
		r.db.matches = append(r.db.matches, *m)
	}
	return nil
}

func (r *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, id int, winnerID *int, status models.MatchStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.matches {
		if r.db.matches[i].ID == id {
			r.db.matches[i].WinnerID = winnerID
			r.db.matches[i].Status = status
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

type fakePlacementRepo struct{ db *memDB }

func (r fakePlacementRepo) ReplaceForTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, placements []models.Placement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.placements[tournamentID] = append([]models.Placement{}, placements...)
	return nil
}

func (r fakePlacementRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Placement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]models.Placement{}, r.db.placements[tournamentID]...), nil
}

type publishedEvent struct {
	TournamentID int
	Type         string
	Payload      interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (b *fakeBroadcaster) Publish(tournamentID int, eventType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, publishedEvent{TournamentID: tournamentID, Type: eventType, Payload: payload})
}

func (b *fakeBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type
	}
	return out
}

type fakeArchive struct {
	mu    sync.Mutex
	saved []*storage.TournamentResults
	err   error
}

func (a *fakeArchive) Save(ctx context.Context, results *storage.TournamentResults) (*storage.UploadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	a.saved = append(a.saved, results)
	key := storage.ResultsKey(results.TournamentID)
	return &storage.UploadResult{Key: key, Location: "https://archive.example.com/" + key}, nil
}

var errArchiveDown = errors.New("archive unavailable")

type testEnv struct {
	db          *memDB
	matchRepo   *fakeMatchRepo
	broadcaster *fakeBroadcaster
	archive     *fakeArchive
	metrics     *metrics.Mock
	service     TournamentService
}

func newTestEnv() *testEnv {
	db := newMemDB()
	env := &testEnv{
		db:          db,
		matchRepo:   &fakeMatchRepo{db: db},
		broadcaster: &fakeBroadcaster{},
		archive:     &fakeArchive{},
		metrics:     metrics.NewMock(),
	}
	env.service = NewTournamentService(
		fakeTx{db: db},
		fakeTournamentRepo{db: db},
		fakeParticipantRepo{db: db},
		env.matchRepo,
		fakePlacementRepo{db: db},
		env.broadcaster,
		env.archive,
		env.metrics,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return env
}

// playOut records a win for player 1 of every open match of the tournament.
func (env *testEnv) playOut(ctx context.Context, tournamentID, organizerID int) error {
	for _, m := range env.db.matchesOf(tournamentID) {
		if m.Status.Finished() {
			continue
		}
		if _, err := env.service.SubmitResult(ctx, m.ID, *m.Player1ID, organizerID); err != nil {
			return err
		}
	}
	return nil
}

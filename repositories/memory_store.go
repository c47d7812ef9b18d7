package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/google/uuid"
)

// MemoryStore keeps all entities in maps. Writers are serialized and work on a copy of the
// state that replaces the live one only when their function returns nil.
type MemoryStore struct {
	mu    sync.RWMutex
	state *memoryState
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState(), now: time.Now}
}

func (s *MemoryStore) Read(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memoryTx{state: s.state, readOnly: true, now: s.now})
}

func (s *MemoryStore) Write(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(&memoryTx{state: working, now: s.now}); err != nil {
		return err
	}
	s.state = working
	return nil
}

type memoryState struct {
	lastID      int
	tournaments map[int]models.Tournament
	teams       map[int]models.Team
	games       map[int]models.Game
	rounds      map[int]models.Round
	matchups    map[int]models.Matchup
	wagers      map[int]models.Wager
	standings   map[int]models.Standing
}

func newMemoryState() *memoryState {
	return &memoryState{
		tournaments: make(map[int]models.Tournament),
		teams:       make(map[int]models.Team),
		games:       make(map[int]models.Game),
		rounds:      make(map[int]models.Round),
		matchups:    make(map[int]models.Matchup),
		wagers:      make(map[int]models.Wager),
		standings:   make(map[int]models.Standing),
	}
}

// clone copies the maps. Stored values are never mutated in place, so sharing their
// pointer fields between copies is safe.
func (st *memoryState) clone() *memoryState {
	return &memoryState{
		lastID:      st.lastID,
		tournaments: cloneMap(st.tournaments),
		teams:       cloneMap(st.teams),
		games:       cloneMap(st.games),
		rounds:      cloneMap(st.rounds),
		matchups:    cloneMap(st.matchups),
		wagers:      cloneMap(st.wagers),
		standings:   cloneMap(st.standings),
	}
}

func (st *memoryState) nextID() int {
	st.lastID++
	return st.lastID
}

func cloneMap[V any](m map[int]V) map[int]V {
	out := make(map[int]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortedValues[V any](m map[int]V, keep func(V) bool) []V {
	ids := make([]int, 0, len(m))
	for id, v := range m {
		if keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	out := make([]V, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

type memoryTx struct {
	state    *memoryState
	readOnly bool
	now      func() time.Time
}

func (t *memoryTx) writable() error {
	if t.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (t *memoryTx) Tournaments() TournamentRepository { return &memoryTournamentRepository{t} }
func (t *memoryTx) Teams() TeamRepository             { return &memoryTeamRepository{t} }
func (t *memoryTx) Games() GameRepository             { return &memoryGameRepository{t} }
func (t *memoryTx) Rounds() RoundRepository           { return &memoryRoundRepository{t} }
func (t *memoryTx) Matchups() MatchupRepository       { return &memoryMatchupRepository{t} }
func (t *memoryTx) Wagers() WagerRepository           { return &memoryWagerRepository{t} }
func (t *memoryTx) Standings() StandingRepository     { return &memoryStandingRepository{t} }

// Tournaments

type memoryTournamentRepository struct{ tx *memoryTx }

func copyTournament(t models.Tournament) *models.Tournament {
	t.Description = clonePtr(t.Description)
	t.CurrentRoundNumber = clonePtr(t.CurrentRoundNumber)
	t.Teams, t.Games, t.Rounds, t.Standings = nil, nil, nil, nil
	return &t
}

func (r *memoryTournamentRepository) Create(_ context.Context, t *models.Tournament) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	st := r.tx.state
	for _, existing := range st.tournaments {
		if existing.Slug == t.Slug {
			return ErrTournamentSlugConflict
		}
	}
	t.ID = st.nextID()
	t.CreatedAt = r.tx.now()
	st.tournaments[t.ID] = *copyTournament(*t)
	return nil
}

func (r *memoryTournamentRepository) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tx.state.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return copyTournament(t), nil
}

func (r *memoryTournamentRepository) LockForUpdate(ctx context.Context, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryTournamentRepository) LockForShare(ctx context.Context, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryTournamentRepository) List(_ context.Context) ([]*models.Tournament, error) {
	all := sortedValues(r.tx.state.tournaments, func(models.Tournament) bool { return true })
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	out := make([]*models.Tournament, 0, len(all))
	for _, t := range all {
		out = append(out, copyTournament(t))
	}
	return out, nil
}

func (r *memoryTournamentRepository) SetCurrentRound(_ context.Context, id int, roundNumber *int) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	t, ok := r.tx.state.tournaments[id]
	if !ok {
		return ErrTournamentNotFound
	}
	t.CurrentRoundNumber = clonePtr(roundNumber)
	r.tx.state.tournaments[id] = t
	return nil
}

// Teams

type memoryTeamRepository struct{ tx *memoryTx }

func copyTeam(t models.Team) *models.Team {
	t.TeamNumber = clonePtr(t.TeamNumber)
	return &t
}

func (r *memoryTeamRepository) Create(_ context.Context, team *models.Team) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	st := r.tx.state
	if _, ok := st.tournaments[team.TournamentID]; !ok {
		return ErrTournamentNotFound
	}
	for _, existing := range st.teams {
		if existing.TournamentID == team.TournamentID && existing.Name == team.Name {
			return ErrTeamNameConflict
		}
	}
	team.ID = st.nextID()
	team.CreatedAt = r.tx.now()
	st.teams[team.ID] = *copyTeam(*team)
	return nil
}

func (r *memoryTeamRepository) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := r.tx.state.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return copyTeam(team), nil
}

func (r *memoryTeamRepository) GetByAccessToken(_ context.Context, token uuid.UUID) (*models.Team, error) {
	for _, team := range r.tx.state.teams {
		if team.AccessToken == token {
			return copyTeam(team), nil
		}
	}
	return nil, ErrTeamNotFound
}

func (r *memoryTeamRepository) ListByTournament(_ context.Context, tournamentID int) ([]*models.Team, error) {
	teams := sortedValues(r.tx.state.teams, func(t models.Team) bool { return t.TournamentID == tournamentID })
	sort.SliceStable(teams, func(i, j int) bool {
		a, b := teams[i].TeamNumber, teams[j].TeamNumber
		switch {
		case a != nil && b != nil && *a != *b:
			return *a < *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return teams[i].ID < teams[j].ID
	})
	out := make([]*models.Team, 0, len(teams))
	for _, t := range teams {
		out = append(out, copyTeam(t))
	}
	return out, nil
}

func (r *memoryTeamRepository) SetTeamNumber(_ context.Context, id int, number *int) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	team, ok := r.tx.state.teams[id]
	if !ok {
		return ErrTeamNotFound
	}
	team.TeamNumber = clonePtr(number)
	r.tx.state.teams[id] = team
	return nil
}

func (r *memoryTeamRepository) ClearTeamNumbers(_ context.Context, tournamentID int) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	for id, team := range r.tx.state.teams {
		if team.TournamentID == tournamentID {
			team.TeamNumber = nil
			r.tx.state.teams[id] = team
		}
	}
	return nil
}

func (r *memoryTeamRepository) Delete(_ context.Context, id int) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	st := r.tx.state
	if _, ok := st.teams[id]; !ok {
		return ErrTeamNotFound
	}
	for _, m := range st.matchups {
		if m.Involves(id) {
			return ErrTeamInUse
		}
	}
	delete(st.teams, id)
	for wid, w := range st.wagers {
		if w.TeamID == id {
			delete(st.wagers, wid)
		}
	}
	for sid, s := range st.standings {
		if s.TeamID == id {
			delete(st.standings, sid)
		}
	}
	return nil
}

// Games

type memoryGameRepository struct{ tx *memoryTx }

func copyGame(g models.Game) *models.Game {
	g.Description = clonePtr(g.Description)
	return &g
}

func (r *memoryGameRepository) Create(_ context.Context, game *models.Game) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	st := r.tx.state
	if _, ok := st.tournaments[game.TournamentID]; !ok {
		return ErrTournamentNotFound
	}
	for _, existing := range st.games {
		if existing.TournamentID == game.TournamentID && existing.Name == game.Name {
			return ErrGameNameConflict
		}
	}
	game.ID = st.nextID()
	game.CreatedAt = r.tx.now()
	st.games[game.ID] = *copyGame(*game)
	return nil
}

func (r *memoryGameRepository) GetByID(_ context.Context, id int) (*models.Game, error) {
	game, ok := r.tx.state.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return copyGame(game), nil
}

func (r *memoryGameRepository) ListByTournament(_ context.Context, tournamentID int) ([]*models.Game, error) {
	games := sortedValues(r.tx.state.games, func(g models.Game) bool { return g.TournamentID == tournamentID })
	out := make([]*models.Game, 0, len(games))
	for _, g := range games {
		out = append(out, copyGame(g))
	}
	return out, nil
}

func (r *memoryGameRepository) Delete(_ context.Context, id int) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	st := r.tx.state
	if _, ok := st.games[id]; !ok {
		return ErrGameNotFound
	}
	for _, round := range st.rounds {
		if round.GameID == id {
			return ErrGameInUse
		}
	}
	delete(st.games, id)
	for wid, w := range st.wagers {
		if w.GameID == id {
			delete(st.wagers, wid)
		}
	}
	return nil
}

// Rounds

type memoryRoundRepository struct{ tx *memoryTx }

func copyRound(r models.Round) *models.Round {
	r.StartTime = clonePtr(r.StartTime)
	r.Matchups = nil
	r.IsCurrent = false
	return &r
}

func (r *memoryRoundRepository) Create(_ context.Context, round *models.Round) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	st := r.tx.state
	if _, ok := st.tournaments[round.TournamentID]; !ok {
		return ErrTournamentNotFound
	}
	if _, ok := st.games[round.GameID]; !ok {
		return ErrGameNotFound
	}
	for _, existing := range st.rounds {
		if existing.TournamentID == round.TournamentID && existing.RoundNumber == round.RoundNumber {
			return ErrRoundNumberConflict
		}
	}
	round.ID = st.nextID()
	round.CreatedAt = r.tx.now()
	st.rounds[round.ID] = *copyRound(*round)
	return nil
}

func (r *memoryRoundRepository) GetByNumber(_ context.Context, tournamentID, roundNumber int) (*models.Round, error) {
	for _, round := range r.tx.state.rounds {
		if round.TournamentID == tournamentID && round.RoundNumber == roundNumber {
			return copyRound(round), nil
		}
	}
	return nil, ErrRoundNotFound
}

func (r *memoryRoundRepository) ListByTournament(_ context.Context, tournamentID int) ([]*models.Round, error) {
	rounds := sortedValues(r.tx.state.rounds, func(rd models.Round) bool { return rd.TournamentID == tournamentID })
	sort.SliceStable(rounds, func(i, j int) bool { return rounds[i].RoundNumber < rounds[j].RoundNumber })
	out := make([]*models.Round, 0, len(rounds))
	for _, rd := range rounds {
		out = append(out, copyRound(rd))
	}
	return out, nil
}

func (r *memoryRoundRepository) CountByTournament(_ context.Context, tournamentID int) (int, error) {
	count := 0
	for _, round := range r.tx.state.rounds {
		if round.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (r *memoryRoundRepository) UpdateStartTime(_ context.Context, id int, startTime *time.Time) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	round, ok := r.tx.state.rounds[id]
	if !ok {
		return ErrRoundNotFound
	}
	round.StartTime = clonePtr(startTime)
	r.tx.state.rounds[id] = round
	return nil
}

func (r *memoryRoundRepository) DeleteByTournament(_ context.Context, tournamentID int) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	st := r.tx.state
	for id, round := range st.rounds {
		if round.TournamentID != tournamentID {
			continue
		}
		delete(st.rounds, id)
		for mid, m := range st.matchups {
			if m.RoundID == id {
				delete(st.matchups, mid)
			}
		}
	}
	return nil
}

// Matchups

type memoryMatchupRepository struct{ tx *memoryTx }

func copyMatchup(m models.Matchup) *models.Matchup {
	m.Team2ID = clonePtr(m.Team2ID)
	m.Team1ReportedWin = clonePtr(m.Team1ReportedWin)
	m.Team2ReportedWin = clonePtr(m.Team2ReportedWin)
	m.ConflictNotes = clonePtr(m.ConflictNotes)
	return &m
}

func (r *memoryMatchupRepository) Create(_ context.Context, m *models.Matchup) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	st := r.tx.state
	if _, ok := st.rounds[m.RoundID]; !ok {
		return ErrRoundNotFound
	}
	if _, ok := st.games[m.GameID]; !ok {
		return ErrGameNotFound
	}
	if _, ok := st.teams[m.Team1ID]; !ok {
		return ErrTeamNotFound
	}
	if m.Team2ID != nil {
		if _, ok := st.teams[*m.Team2ID]; !ok {
			return ErrTeamNotFound
		}
	}
	for _, existing := range st.matchups {
		if existing.RoundID == m.RoundID && existing.Team1ID == m.Team1ID {
			return ErrMatchupConflict
		}
	}
	if m.Result == "" {
		m.Result = models.ResultPending
	}
	m.ID = st.nextID()
	m.CreatedAt = r.tx.now()
	m.UpdatedAt = m.CreatedAt
	st.matchups[m.ID] = *copyMatchup(*m)
	return nil
}

func (r *memoryMatchupRepository) GetByID(_ context.Context, id int) (*models.Matchup, error) {
	m, ok := r.tx.state.matchups[id]
	if !ok {
		return nil, ErrMatchupNotFound
	}
	return copyMatchup(m), nil
}

func (r *memoryMatchupRepository) LockForUpdate(ctx context.Context, id int) (*models.Matchup, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryMatchupRepository) ListByTournament(_ context.Context, tournamentID int) ([]*models.Matchup, error) {
	st := r.tx.state
	matchups := sortedValues(st.matchups, func(m models.Matchup) bool { return m.TournamentID == tournamentID })
	sort.SliceStable(matchups, func(i, j int) bool {
		return st.rounds[matchups[i].RoundID].RoundNumber < st.rounds[matchups[j].RoundID].RoundNumber
	})
	out := make([]*models.Matchup, 0, len(matchups))
	for _, m := range matchups {
		out = append(out, copyMatchup(m))
	}
	return out, nil
}

func (r *memoryMatchupRepository) UpdateResult(_ context.Context, m *models.Matchup) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	stored, ok := r.tx.state.matchups[m.ID]
	if !ok {
		return ErrMatchupNotFound
	}
	m.UpdatedAt = r.tx.now()
	stored.Result = m.Result
	stored.Team1ReportedWin = clonePtr(m.Team1ReportedWin)
	stored.Team2ReportedWin = clonePtr(m.Team2ReportedWin)
	stored.ConflictFlag = m.ConflictFlag
	stored.ConflictNotes = clonePtr(m.ConflictNotes)
	stored.UpdatedAt = m.UpdatedAt
	r.tx.state.matchups[m.ID] = stored
	return nil
}

// Wagers

type memoryWagerRepository struct{ tx *memoryTx }

func (r *memoryWagerRepository) Upsert(_ context.Context, w *models.Wager) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	st := r.tx.state
	if _, ok := st.teams[w.TeamID]; !ok {
		return ErrTeamNotFound
	}
	if _, ok := st.games[w.GameID]; !ok {
		return ErrGameNotFound
	}
	w.UpdatedAt = r.tx.now()
	for id, existing := range st.wagers {
		if existing.TeamID == w.TeamID && existing.GameID == w.GameID {
			w.ID = id
			st.wagers[id] = *w
			return nil
		}
	}
	w.ID = st.nextID()
	st.wagers[w.ID] = *w
	return nil
}

func (r *memoryWagerRepository) ListByTeam(_ context.Context, teamID int) ([]*models.Wager, error) {
	wagers := sortedValues(r.tx.state.wagers, func(w models.Wager) bool { return w.TeamID == teamID })
	sort.SliceStable(wagers, func(i, j int) bool { return wagers[i].GameID < wagers[j].GameID })
	return wagerPointers(wagers), nil
}

func (r *memoryWagerRepository) ListByTournament(_ context.Context, tournamentID int) ([]*models.Wager, error) {
	st := r.tx.state
	wagers := sortedValues(st.wagers, func(w models.Wager) bool { return st.teams[w.TeamID].TournamentID == tournamentID })
	sort.SliceStable(wagers, func(i, j int) bool {
		if wagers[i].TeamID != wagers[j].TeamID {
			return wagers[i].TeamID < wagers[j].TeamID
		}
		return wagers[i].GameID < wagers[j].GameID
	})
	return wagerPointers(wagers), nil
}

func wagerPointers(wagers []models.Wager) []*models.Wager {
	out := make([]*models.Wager, 0, len(wagers))
	for i := range wagers {
		w := wagers[i]
		out = append(out, &w)
	}
	return out
}

// Standings

type memoryStandingRepository struct{ tx *memoryTx }

func (r *memoryStandingRepository) ListByTournament(_ context.Context, tournamentID int) ([]*models.Standing, error) {
	standings := sortedValues(r.tx.state.standings, func(s models.Standing) bool { return s.TournamentID == tournamentID })
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Rank != standings[j].Rank {
			return standings[i].Rank < standings[j].Rank
		}
		return standings[i].TeamID < standings[j].TeamID
	})
	out := make([]*models.Standing, 0, len(standings))
	for i := range standings {
		s := standings[i]
		out = append(out, &s)
	}
	return out, nil
}

func (r *memoryStandingRepository) BatchCreate(_ context.Context, standings []*models.Standing) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	st := r.tx.state
	for _, s := range standings {
		if _, ok := st.teams[s.TeamID]; !ok {
			return ErrTeamNotFound
		}
		for _, existing := range st.standings {
			if existing.TournamentID == s.TournamentID && existing.TeamID == s.TeamID {
				return ErrStandingConflict
			}
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = r.tx.now()
		}
		s.ID = st.nextID()
		stored := *s
		stored.Team = nil
		st.standings[s.ID] = stored
	}
	return nil
}

func (r *memoryStandingRepository) DeleteByTournamentID(_ context.Context, tournamentID int) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	for id, s := range r.tx.state.standings {
		if s.TournamentID == tournamentID {
			delete(r.tx.state.standings, id)
		}
	}
	return nil
}

package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/Dosada05/backyard-olympics/repositories"
	"github.com/Dosada05/backyard-olympics/storage"
)

const (
	scheduleExportFile  = "schedule.csv"
	standingsExportFile = "standings.csv"
	csvContentType      = "text/csv; charset=utf-8"
)

type ExportResult struct {
	ScheduleURL  string `json:"schedule_url"`
	StandingsURL string `json:"standings_url"`
}

type ExportService interface {
	ScheduleCSV(ctx context.Context, tournamentID int, w io.Writer) error
	StandingsCSV(ctx context.Context, tournamentID int, w io.Writer) error
	// PublishExports uploads both files to object storage.
	PublishExports(ctx context.Context, tournamentID int) (*ExportResult, error)
}

type exportService struct {
	store    repositories.Store
	uploader storage.FileUploader
	logger   *slog.Logger
}

// NewExportService accepts a nil uploader; publishing is then disabled.
func NewExportService(store repositories.Store, uploader storage.FileUploader, logger *slog.Logger) ExportService {
	return &exportService{store: store, uploader: uploader, logger: logger}
}

type scheduleGrid struct {
	tournament *models.Tournament
	teamNames  map[int]string
	gameNames  map[int]string
	rounds     []models.Round
}

func (s *exportService) loadGrid(ctx context.Context, tournamentID int) (*scheduleGrid, error) {
	grid := &scheduleGrid{teamNames: map[int]string{}, gameNames: map[int]string{}}
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		tournament, err := tx.Tournaments().GetByID(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "get tournament")
		}
		grid.tournament = tournament
		teams, err := tx.Teams().ListByTournament(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "list teams")
		}
		for _, t := range teams {
			grid.teamNames[t.ID] = t.Name
		}
		games, err := tx.Games().ListByTournament(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "list games")
		}
		for _, g := range games {
			grid.gameNames[g.ID] = g.Name
		}
		grid.rounds, err = loadRounds(ctx, tx, tournament)
		return err
	})
	if err != nil {
		return nil, err
	}
	return grid, nil
}

func (s *exportService) ScheduleCSV(ctx context.Context, tournamentID int, w io.Writer) error {
	grid, err := s.loadGrid(ctx, tournamentID)
	if err != nil {
		return err
	}
	return writeScheduleCSV(w, grid)
}

func writeScheduleCSV(w io.Writer, grid *scheduleGrid) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"round", "start_time", "game", "team1", "team2", "state", "winner"}); err != nil {
		return fmt.Errorf("write schedule header: %w", err)
	}
	for _, round := range grid.rounds {
		start := ""
		if round.StartTime != nil {
			start = round.StartTime.Format(time.RFC3339)
		}
		for _, m := range round.Matchups {
			team2 := "BYE"
			if m.Team2ID != nil {
				team2 = grid.teamNames[*m.Team2ID]
			}
			winner := ""
			if m.State() == models.StateConfirmed {
				if id := m.WinnerID(); id != nil {
					winner = grid.teamNames[*id]
				}
			}
			record := []string{
				strconv.Itoa(round.RoundNumber),
				start,
				grid.gameNames[m.GameID],
				grid.teamNames[m.Team1ID],
				team2,
				string(m.State()),
				winner,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write schedule row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *exportService) StandingsCSV(ctx context.Context, tournamentID int, w io.Writer) error {
	var standings []models.Standing
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		if _, err := tx.Tournaments().GetByID(ctx, tournamentID); err != nil {
			return mapRepositoryError(err, "get tournament")
		}
		var err error
		standings, err = loadStandings(ctx, tx, tournamentID)
		return err
	})
	if err != nil {
		return err
	}
	return writeStandingsCSV(w, standings)
}

func writeStandingsCSV(w io.Writer, standings []models.Standing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "team", "wins", "losses", "wager_points", "total_points"}); err != nil {
		return fmt.Errorf("write standings header: %w", err)
	}
	for _, st := range standings {
		name := ""
		if st.Team != nil {
			name = st.Team.Name
		}
		record := []string{
			strconv.Itoa(st.Rank),
			name,
			strconv.Itoa(st.Wins),
			strconv.Itoa(st.Losses),
			strconv.Itoa(st.WagerPoints),
			strconv.Itoa(st.TotalPoints),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write standings row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *exportService) PublishExports(ctx context.Context, tournamentID int) (*ExportResult, error) {
	if s.uploader == nil {
		return nil, ErrExportsDisabled
	}

	grid, err := s.loadGrid(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	var schedule, standings bytes.Buffer
	if err := writeScheduleCSV(&schedule, grid); err != nil {
		return nil, err
	}
	if err := s.StandingsCSV(ctx, tournamentID, &standings); err != nil {
		return nil, err
	}

	t := grid.tournament
	scheduleUpload, err := s.uploader.Upload(ctx, storage.ExportKey(t.Slug, t.ID, scheduleExportFile), csvContentType, &schedule)
	if err != nil {
		return nil, fmt.Errorf("upload schedule export: %w", err)
	}
	standingsUpload, err := s.uploader.Upload(ctx, storage.ExportKey(t.Slug, t.ID, standingsExportFile), csvContentType, &standings)
	if err != nil {
		return nil, fmt.Errorf("upload standings export: %w", err)
	}

	s.logger.InfoContext(ctx, "exports published",
		slog.Int("tournament_id", t.ID),
		slog.String("schedule_key", scheduleUpload.Key),
		slog.String("standings_key", standingsUpload.Key),
	)
	return &ExportResult{ScheduleURL: scheduleUpload.Location, StandingsURL: standingsUpload.Location}, nil
}

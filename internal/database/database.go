package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const tableName = "landlord_results"

const columns = "id, room_id, created_at, player1, player2, player3, landlord_seat, winner_seat, landlord_won, bid"

// Service stores finished match results. Live match state is never persisted.
type Service struct {
	db         *sql.DB
	logger     *zap.Logger
	table_name string
}

// New opens the database with driver ("sqlite3" or "pgx") and creates the results table.
func New(driver, dsn string, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		// One connection keeps ":memory:" databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	}

	sqlStmt := `
	create table if not exists ` + tableName + ` (
		id text not null primary key,
		room_id text not null,
		created_at text not null,
		player1 text,
		player2 text,
		player3 text,
		landlord_seat integer,
		winner_seat integer,
		landlord_won boolean,
		bid integer
	);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("create results table: %w", err)
	}

	logger.Info("results store ready", zap.String("driver", driver))
	return &Service{
		db:         db,
		logger:     logger,
		table_name: tableName,
	}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) TableName() string {
	return s.table_name
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Service) GetAll(ctx context.Context) ([]GameResult, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM "+s.table_name+" ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

func (s *Service) GetByID(ctx context.Context, id string) (GameResult, error) {
	var result GameResult
	err := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM "+s.table_name+" WHERE id = $1", id).Scan(
		&result.ID,
		&result.RoomID,
		&result.CreatedAt,
		&result.Player1,
		&result.Player2,
		&result.Player3,
		&result.LandlordSeat,
		&result.WinnerSeat,
		&result.LandlordWon,
		&result.Bid)
	if err != nil {
		return GameResult{}, err
	}
	return result, nil
}

func (s *Service) Insert(ctx context.Context, result GameResult) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO "+s.table_name+
		" ("+columns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
		result.ID,
		result.RoomID,
		result.CreatedAt,
		result.Player1,
		result.Player2,
		result.Player3,
		result.LandlordSeat,
		result.WinnerSeat,
		result.LandlordWon,
		result.Bid)
	if err != nil {
		return fmt.Errorf("insert result %s: %w", result.ID, err)
	}
	return nil
}

// GetByPlayer returns every result the player took part in, or sql.ErrNoRows.
func (s *Service) GetByPlayer(ctx context.Context, playerName string) ([]GameResult, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM "+s.table_name+
		" WHERE player1 = $1 OR player2 = $1 OR player3 = $1 ORDER BY created_at DESC",
		playerName)
	if err != nil {
		return nil, err
	}
	results, err := scanResults(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows // No results found
	}
	return results, nil
}

// PruneBefore deletes results created before cutoff and reports how many went.
func (s *Service) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+s.table_name+" WHERE created_at < $1", formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune results: %w", err)
	}
	return res.RowsAffected()
}

func scanResults(rows *sql.Rows) ([]GameResult, error) {
	defer rows.Close()

	results := []GameResult{}
	for rows.Next() {
		var result GameResult
		if err := rows.Scan(
			&result.ID,
			&result.RoomID,
			&result.CreatedAt,
			&result.Player1,
			&result.Player2,
			&result.Player3,
			&result.LandlordSeat,
			&result.WinnerSeat,
			&result.LandlordWon,
			&result.Bid); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

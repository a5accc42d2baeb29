package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yulin/playlens/internal/behavior"
	"github.com/yulin/playlens/internal/knowledge"
)

// Run records one pipeline execution.
type Run struct {
	ID                string
	CreatedAt         time.Time
	QuestionnairePath string
	GameLogPath       string
	Students          int
	ClusterK          int
	Silhouette        float64
}

// NewRun allocates a run with a fresh id and timestamp.
func NewRun(questionnairePath, gameLogPath string) Run {
	return Run{
		ID:                uuid.NewString(),
		CreatedAt:         time.Now().UTC(),
		QuestionnairePath: questionnairePath,
		GameLogPath:       gameLogPath,
	}
}

// SaveRun persists the run row together with its behavior and knowledge
// tables in one transaction. The two record slices must be index-aligned.
func (s *Store) SaveRun(ctx context.Context, run Run, brecs []behavior.Record, krecs []knowledge.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, questionnaire_path, game_log_path, students, cluster_k, silhouette)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.QuestionnairePath, run.GameLogPath, run.Students, run.ClusterK, run.Silhouette)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, rec := range brecs {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal behavior record %s/%s: %w", rec.Class, rec.StuNum, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO behavior_records (run_id, class, stu_num, data) VALUES (?, ?, ?, ?)`,
			run.ID, rec.Class, rec.StuNum, string(data))
		if err != nil {
			return fmt.Errorf("insert behavior record: %w", err)
		}
	}

	for _, rec := range krecs {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal knowledge record %s/%s: %w", rec.Class, rec.StuNum, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO knowledge_records (run_id, class, stu_num, data) VALUES (?, ?, ?, ?)`,
			run.ID, rec.Class, rec.StuNum, string(data))
		if err != nil {
			return fmt.Errorf("insert knowledge record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run, or nil when the store is empty.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, questionnaire_path, game_log_path, students, cluster_k, silhouette
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)

	var r Run
	err := row.Scan(&r.ID, &r.CreatedAt, &r.QuestionnairePath, &r.GameLogPath, &r.Students, &r.ClusterK, &r.Silhouette)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	return &r, nil
}

// Runs lists all runs, most recent first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, questionnaire_path, game_log_path, students, cluster_k, silhouette
		 FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.QuestionnairePath, &r.GameLogPath, &r.Students, &r.ClusterK, &r.Silhouette); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// BehaviorRecords loads the behavior table of one run in (class, stu_num)
// order.
func (s *Store) BehaviorRecords(ctx context.Context, runID string) ([]behavior.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM behavior_records WHERE run_id = ? ORDER BY class, stu_num`, runID)
	if err != nil {
		return nil, fmt.Errorf("query behavior records: %w", err)
	}
	defer rows.Close()

	var recs []behavior.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan behavior record: %w", err)
		}
		var rec behavior.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal behavior record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// KnowledgeRecords loads the mastery table of one run in (class, stu_num)
// order.
func (s *Store) KnowledgeRecords(ctx context.Context, runID string) ([]knowledge.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM knowledge_records WHERE run_id = ? ORDER BY class, stu_num`, runID)
	if err != nil {
		return nil, fmt.Errorf("query knowledge records: %w", err)
	}
	defer rows.Close()

	var recs []knowledge.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan knowledge record: %w", err)
		}
		var rec knowledge.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal knowledge record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// PruneRuns deletes all but the keep most recent runs. Their record rows go
// with them via the cascading foreign keys.
func (s *Store) PruneRuns(ctx context.Context, keep int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	return nil
}

package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLiteStore is the durable Store adapter. It implements the same
// interface as MemoryStore; mutations run inside transactions so
// concurrent calls on one session serialize at the database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Serialize writers; the ledger invariant depends on it.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	// Timestamps are stored as Unix nanoseconds so created_at compares
	// chronologically at any granularity.
	stmts := []string{
		`PRAGMA journal_mode = WAL;`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			type TEXT NOT NULL,
			role TEXT NOT NULL,
			tech_stack TEXT NOT NULL,
			experience TEXT NOT NULL,
			persona TEXT NOT NULL,
			status TEXT NOT NULL,
			questions TEXT NOT NULL,
			answers TEXT NOT NULL,
			current_index INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at INTEGER,
			duration TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_owner_created ON sessions(owner, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, params CreateParams) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		Owner:      params.Owner,
		Type:       params.Type,
		Role:       params.Role,
		TechStack:  append([]string(nil), params.TechStack...),
		Experience: params.Experience,
		Persona:    params.Persona,
		Status:     StatusActive,
		Questions:  []Question{},
		Answers:    []Answer{},
		CreatedAt:  now,
		StartedAt:  now,
	}

	if err := s.insert(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SQLiteStore) insert(ctx context.Context, sess *Session) error {
	stack, questions, answers, err := marshalLedgers(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, owner, type, role, tech_stack, experience, persona, status,
			questions, answers, current_index, created_at, started_at, ended_at, duration)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, '')`,
		sess.ID, sess.Owner, string(sess.Type), sess.Role, stack, string(sess.Experience),
		sess.Persona, string(sess.Status), questions, answers, sess.CurrentQuestionIndex,
		sess.CreatedAt.UnixNano(), sess.StartedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	return s.get(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) get(ctx context.Context, q querier, id string) (*Session, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, owner, type, role, tech_stack, experience, persona, status,
			questions, answers, current_index, created_at, started_at, ended_at, duration
		 FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

func (s *SQLiteStore) AddQuestion(ctx context.Context, id string, q Question) error {
	return s.update(ctx, id, func(sess *Session) error {
		sess.Questions = append(sess.Questions, q)
		return nil
	})
}

func (s *SQLiteStore) RecordAnswer(ctx context.Context, id string, a Answer) (Progress, error) {
	var progress Progress
	err := s.update(ctx, id, func(sess *Session) error {
		if len(sess.Answers) >= len(sess.Questions) {
			return &ValidationError{Field: "answer", Message: "no pending question to answer"}
		}
		sess.Answers = append(sess.Answers, a)
		sess.CurrentQuestionIndex = len(sess.Answers)
		progress = progressOf(sess)
		return nil
	})
	return progress, err
}

func (s *SQLiteStore) Complete(ctx context.Context, id string) (*Session, error) {
	var completed *Session
	err := s.update(ctx, id, func(sess *Session) error {
		if sess.Status != StatusCompleted {
			sess.Status = StatusCompleted
			sess.EndedAt = s.now()
			sess.Duration = FormatDuration(sess.EndedAt.Sub(sess.StartedAt))
		}
		completed = sess.clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// update runs a read-modify-write cycle on one session inside a
// transaction.
func (s *SQLiteStore) update(ctx context.Context, id string, mutate func(*Session) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sess, err := s.get(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := mutate(sess); err != nil {
		return err
	}

	stack, questions, answers, err := marshalLedgers(sess)
	if err != nil {
		return err
	}

	var endedAt any
	if !sess.EndedAt.IsZero() {
		endedAt = sess.EndedAt.UnixNano()
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE sessions SET status = ?, tech_stack = ?, questions = ?, answers = ?,
			current_index = ?, ended_at = ?, duration = ? WHERE id = ?`,
		string(sess.Status), stack, questions, answers,
		sess.CurrentQuestionIndex, endedAt, sess.Duration, sess.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, type, role, tech_stack, experience, persona, status,
			questions, answers, current_index, created_at, started_at, ended_at, duration
		 FROM sessions WHERE owner = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		owner, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := []*Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func marshalLedgers(sess *Session) (stack, questions, answers string, err error) {
	b, err := json.Marshal(sess.TechStack)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal tech stack: %w", err)
	}
	stack = string(b)

	b, err = json.Marshal(sess.Questions)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal questions: %w", err)
	}
	questions = string(b)

	b, err = json.Marshal(sess.Answers)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal answers: %w", err)
	}
	answers = string(b)
	return stack, questions, answers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		sess                      Session
		typ, experience, status   string
		stack, questions, answers string
		createdAt, startedAt      int64
		endedAt                   sql.NullInt64
	)

	err := row.Scan(&sess.ID, &sess.Owner, &typ, &sess.Role, &stack, &experience,
		&sess.Persona, &status, &questions, &answers, &sess.CurrentQuestionIndex,
		&createdAt, &startedAt, &endedAt, &sess.Duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	sess.Type = InterviewType(typ)
	sess.Experience = ExperienceTier(experience)
	sess.Status = Status(status)

	if err := json.Unmarshal([]byte(stack), &sess.TechStack); err != nil {
		return nil, fmt.Errorf("decode tech stack: %w", err)
	}
	if err := json.Unmarshal([]byte(questions), &sess.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &sess.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	sess.CreatedAt = time.Unix(0, createdAt).UTC()
	sess.StartedAt = time.Unix(0, startedAt).UTC()
	if endedAt.Valid {
		sess.EndedAt = time.Unix(0, endedAt.Int64).UTC()
	}

	return &sess, nil
}

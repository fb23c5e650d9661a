package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/goalplan/internal/db"
	"github.com/alexanderramin/goalplan/internal/domain"
)

// SQLiteConversationRepo implements ConversationRepo. Interview state and
// transcript are stored as JSON; current_step is duplicated for querying.
type SQLiteConversationRepo struct {
	db db.DBTX
}

func NewSQLiteConversationRepo(conn db.DBTX) *SQLiteConversationRepo {
	return &SQLiteConversationRepo{db: conn}
}

const conversationColumns = `id, state_json, transcript_json, goal_id, created_at, updated_at`

func (r *SQLiteConversationRepo) Create(ctx context.Context, c *domain.Conversation) error {
	state, err := toJSON(c.State, "interview state")
	if err != nil {
		return err
	}
	transcript, err := toJSON(nonNilTurns(c.Transcript), "transcript")
	if err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = nowUTC()
	}
	c.UpdatedAt = c.CreatedAt

	query := `INSERT INTO conversations (id, current_step, state_json, transcript_json, goal_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID,
		string(c.State.Current),
		state,
		transcript,
		c.GoalID,
		formatTime(c.CreatedAt.UTC()),
		formatTime(c.UpdatedAt.UTC()),
	)
	if err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}
	return nil
}

func (r *SQLiteConversationRepo) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = ?`
	return r.scanConversation(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteConversationRepo) Update(ctx context.Context, c *domain.Conversation) error {
	state, err := toJSON(c.State, "interview state")
	if err != nil {
		return err
	}
	transcript, err := toJSON(nonNilTurns(c.Transcript), "transcript")
	if err != nil {
		return err
	}
	c.UpdatedAt = nowUTC()

	query := `UPDATE conversations
		SET current_step = ?, state_json = ?, transcript_json = ?, goal_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(c.State.Current), state, transcript, c.GoalID, formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return fmt.Errorf("updating conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("conversation %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteConversationRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Conversation, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + conversationColumns + ` FROM conversations ORDER BY updated_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var out []*domain.Conversation
	for rows.Next() {
		c, err := r.scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}
	return out, nil
}

func (r *SQLiteConversationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteConversationRepo) scanConversation(row rowScanner) (*domain.Conversation, error) {
	var (
		c                         domain.Conversation
		stateJSON, transcriptJSON string
		goalID                    sql.NullString
		createdAt, updatedAt      string
	)
	if err := row.Scan(&c.ID, &stateJSON, &transcriptJSON, &goalID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("conversation: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}
	return populateConversation(&c, stateJSON, transcriptJSON, goalID, createdAt, updatedAt)
}

func populateConversation(c *domain.Conversation, stateJSON, transcriptJSON string, goalID sql.NullString, createdAt, updatedAt string) (*domain.Conversation, error) {
	if err := fromJSON(stateJSON, &c.State, "interview state"); err != nil {
		return nil, err
	}
	if err := fromJSON(transcriptJSON, &c.Transcript, "transcript"); err != nil {
		return nil, err
	}
	if goalID.Valid {
		id := goalID.String
		c.GoalID = &id
	}

	var err error
	if c.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return c, nil
}

func nonNilTurns(t []domain.Turn) []domain.Turn {
	if t == nil {
		return []domain.Turn{}
	}
	return t
}

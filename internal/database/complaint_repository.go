package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/complaint-triage/internal/domain"
)

// ComplaintRepository reads complaints awaiting classification and writes
// classifications back.
type ComplaintRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewComplaintRepository creates a complaint repository.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db, now: time.Now}
}

// ListUnclassified returns up to limit complaints that have no
// classification yet, oldest first.
func (r *ComplaintRepository) ListUnclassified(ctx context.Context, limit int) ([]domain.ComplaintRecord, error) {
	query := r.db.Rebind(`
		SELECT id, title, COALESCE(description, '') AS description, COALESCE(category, '') AS category,
		       department_id, status, ai_confidence, submitted_at
		FROM complaints
		WHERE ai_confidence = 0
		ORDER BY submitted_at, id
		LIMIT ?
	`)

	records := []domain.ComplaintRecord{}
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("list unclassified complaints: %w", err)
	}
	return records, nil
}

// SaveClassification stores result on complaint id. departmentID may be
// nil when the department name has no row. Tags and urgency keywords are
// stored as JSON arrays.
func (r *ComplaintRepository) SaveClassification(
	ctx context.Context,
	id int64,
	departmentID *int64,
	result domain.ClassificationResult,
) error {
	tags, err := json.Marshal(nonNil(result.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	keywords, err := json.Marshal(nonNil(result.UrgencyKeywords))
	if err != nil {
		return fmt.Errorf("encode urgency keywords: %w", err)
	}

	query := r.db.Rebind(`
		UPDATE complaints
		SET priority = ?, sentiment = ?, department_id = ?, tags = ?,
		    urgency_keywords = ?, ai_confidence = ?, updated_at = ?
		WHERE id = ?
	`)

	res, err := r.db.ExecContext(ctx, query,
		string(result.Priority),
		string(result.Sentiment),
		departmentID,
		string(tags),
		string(keywords),
		result.Confidence,
		r.now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update complaint %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for complaint %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrComplaintNotFound, id)
	}
	return nil
}

type classifiedRow struct {
	domain.ClassifiedComplaint
	UrgencyKeywords sql.NullString `db:"urgency_keywords"`
}

// ListClassified returns every classified complaint, optionally limited to
// one department name.
func (r *ComplaintRepository) ListClassified(ctx context.Context, department string) ([]domain.ClassifiedComplaint, error) {
	query := `
		SELECT c.id, COALESCE(c.priority, '') AS priority, COALESCE(c.sentiment, '') AS sentiment,
		       COALESCE(d.name, '') AS department, c.urgency_keywords, c.ai_confidence
		FROM complaints c
		LEFT JOIN departments d ON d.id = c.department_id
		WHERE c.ai_confidence > 0`
	var args []any
	if department != "" {
		query += ` AND d.name = ?`
		args = append(args, department)
	}
	query += ` ORDER BY c.id`

	var rows []classifiedRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list classified complaints: %w", err)
	}

	out := make([]domain.ClassifiedComplaint, 0, len(rows))
	for _, row := range rows {
		cc := row.ClassifiedComplaint
		if row.UrgencyKeywords.Valid && row.UrgencyKeywords.String != "" {
			if err := json.Unmarshal([]byte(row.UrgencyKeywords.String), &cc.UrgencyKeywords); err != nil {
				return nil, fmt.Errorf("decode urgency keywords for complaint %d: %w", cc.ID, err)
			}
		}
		out = append(out, cc)
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

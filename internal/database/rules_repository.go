package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/complaint-triage/internal/domain"
)

// RulesRepository reads vocabulary rules from classification_rules.
// Keywords are a Postgres text[] column.
type RulesRepository struct {
	db *sqlx.DB
}

// NewRulesRepository creates a new rules repository.
func NewRulesRepository(db *sqlx.DB) *RulesRepository {
	return &RulesRepository{db: db}
}

// ListVocabularyRules returns enabled urgency, department and location
// rules, highest priority first.
func (r *RulesRepository) ListVocabularyRules(ctx context.Context) ([]domain.ClassificationRule, error) {
	query := `
		SELECT id, rule_name, rule_type, COALESCE(topic_name, ''), keywords, importance, enabled, priority,
		       created_at, updated_at
		FROM classification_rules
		WHERE enabled = true AND rule_type IN ($1, $2, $3)
		ORDER BY priority DESC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query,
		domain.RuleTypeUrgency, domain.RuleTypeDepartment, domain.RuleTypeLocation)
	if err != nil {
		return nil, fmt.Errorf("list vocabulary rules: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var rules []domain.ClassificationRule
	for rows.Next() {
		var rule domain.ClassificationRule
		if err = rows.Scan(
			&rule.ID,
			&rule.RuleName,
			&rule.RuleType,
			&rule.TopicName,
			pq.Array(&rule.Keywords),
			&rule.Importance,
			&rule.Enabled,
			&rule.Priority,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan vocabulary rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vocabulary rules: %w", err)
	}
	return rules, nil
}

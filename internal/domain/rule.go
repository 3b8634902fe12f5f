package domain

import "time"

// Vocabulary rule types stored in classification_rules.
const (
	RuleTypeUrgency    = "urgency"
	RuleTypeDepartment = "department"
	RuleTypeLocation   = "location"
)

// ClassificationRule is one row of the classification_rules table. A
// department rule names its department in TopicName and carries the
// department's importance weight.
type ClassificationRule struct {
	ID         int       `db:"id"         json:"id"`
	RuleName   string    `db:"rule_name"  json:"rule_name"`
	RuleType   string    `db:"rule_type"  json:"rule_type"`
	TopicName  string    `db:"topic_name" json:"topic_name,omitempty"`
	Keywords   []string  `db:"keywords"   json:"keywords"`
	Importance int       `db:"importance" json:"importance"`
	Enabled    bool      `db:"enabled"    json:"enabled"`
	Priority   int       `db:"priority"   json:"priority"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

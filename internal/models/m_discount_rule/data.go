package m_discount_rule

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the discount_rules table.
// Logic holds the rule parameters; RuleType says how to decode them.
type Data struct {
	RuleID    string           `spanner:"rule_id"`
	Name      string           `spanner:"name"`
	RuleType  string           `spanner:"rule_type"`
	Logic     spanner.NullJSON `spanner:"logic"`
	Active    bool             `spanner:"active"`
	Version   int64            `spanner:"version"`
	CreatedAt time.Time        `spanner:"created_at"`
	UpdatedAt time.Time        `spanner:"updated_at"`
}

package query

import (
	"fmt"
	"strings"
)

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{})
}

// eqCondition implements equality comparison (field = value).
type eqCondition struct {
	field string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("status", "active") generates "status = @p0"
func Eq(field string, value interface{}) Condition {
	return &eqCondition{
		field: field,
		value: value,
	}
}

// SQL generates the SQL fragment for equality comparison.
func (c *eqCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s = @%s", c.field, paramName)
	params := map[string]interface{}{
		paramName: c.value,
	}
	return sql, params
}

// compareCondition implements ordered comparisons (field op value).
type compareCondition struct {
	field string
	op    string
	value interface{}
}

// Lt creates a WHERE condition for field < value.
func Lt(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "<", value: value}
}

// Lte creates a WHERE condition for field <= value.
// Example: Lte("valid_from", t) generates "valid_from <= @p0"
func Lte(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "<=", value: value}
}

// Gte creates a WHERE condition for field >= value.
func Gte(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: ">=", value: value}
}

// SQL generates the SQL fragment for the comparison.
func (c *compareCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s %s @%s", c.field, c.op, paramName), map[string]interface{}{
		paramName: c.value,
	}
}

// inCondition implements set membership over an array parameter.
type inCondition struct {
	field  string
	values interface{}
}

// In creates a WHERE condition for membership in values, which must be a
// slice Spanner can bind as an ARRAY.
// Example: In("status", []string{"draft", "active"}) generates "status IN UNNEST(@p0)"
func In(field string, values interface{}) Condition {
	return &inCondition{field: field, values: values}
}

// SQL generates the SQL fragment for set membership.
func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s IN UNNEST(@%s)", c.field, paramName), map[string]interface{}{
		paramName: c.values,
	}
}

// openEndedAfterCondition matches nullable upper bounds at or after a value.
type openEndedAfterCondition struct {
	field string
	value interface{}
}

// OpenEndedAfter matches rows whose field is NULL (open-ended) or >= value.
// Example: OpenEndedAfter("valid_to", t) generates "(valid_to IS NULL OR valid_to >= @p0)"
func OpenEndedAfter(field string, value interface{}) Condition {
	return &openEndedAfterCondition{field: field, value: value}
}

// SQL generates the SQL fragment for the open-ended bound.
func (c *openEndedAfterCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("(%s IS NULL OR %s >= @%s)", c.field, c.field, paramName), map[string]interface{}{
		paramName: c.value,
	}
}

// containsFoldCondition implements a case-insensitive substring match.
type containsFoldCondition struct {
	field string
	value string
}

// ContainsFold matches rows whose field contains value, ignoring case.
// Example: ContainsFold("product_name", "Shirt") generates "LOWER(product_name) LIKE @p0"
// with @p0 bound to "%shirt%".
func ContainsFold(field, value string) Condition {
	return &containsFoldCondition{field: field, value: value}
}

// SQL generates the SQL fragment for the substring match.
func (c *containsFoldCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.ToLower(c.value))
	return fmt.Sprintf("LOWER(%s) LIKE @%s", c.field, paramName), map[string]interface{}{
		paramName: "%" + escaped + "%",
	}
}

// IsNull creates a WHERE condition for NULL checks.
// Example: IsNull("approved_at") generates "approved_at IS NULL"
func IsNull(field string) Condition {
	return &isNullCondition{field: field}
}

// isNullCondition implements IS NULL comparison.
type isNullCondition struct {
	field string
}

// SQL generates the SQL fragment for IS NULL comparison.
func (c *isNullCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	sql := fmt.Sprintf("%s IS NULL", c.field)
	return sql, map[string]interface{}{}
}

// IsNotNull creates a WHERE condition for NOT NULL checks.
// Example: IsNotNull("valid_to") generates "valid_to IS NOT NULL"
func IsNotNull(field string) Condition {
	return &isNotNullCondition{field: field}
}

// isNotNullCondition implements IS NOT NULL comparison.
type isNotNullCondition struct {
	field string
}

// SQL generates the SQL fragment for IS NOT NULL comparison.
func (c *isNotNullCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	sql := fmt.Sprintf("%s IS NOT NULL", c.field)
	return sql, map[string]interface{}{}
}

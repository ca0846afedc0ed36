package m_policy_execution

// Field name constants for the policy_executions table.
const (
	TableName = "policy_executions"

	ExecutionID     = "execution_id"
	PolicyID        = "policy_id"
	PriceBookID     = "price_book_id"
	ExecutionType   = "execution_type"
	ExecutedAt      = "executed_at"
	SkusProcessed   = "skus_processed"
	PricesGenerated = "prices_generated"
	ErrorsCount     = "errors_count"
	Status          = "status"
	Log             = "log"
	Changes         = "changes"
)

// Columns lists every column in table order.
var Columns = []string{
	ExecutionID,
	PolicyID,
	PriceBookID,
	ExecutionType,
	ExecutedAt,
	SkusProcessed,
	PricesGenerated,
	ErrorsCount,
	Status,
	Log,
	Changes,
}

package domain

import (
	"fmt"
	"time"
)

// ExecutionType records what triggered a policy run.
type ExecutionType string

const (
	ExecutionManual    ExecutionType = "manual"
	ExecutionScheduled ExecutionType = "scheduled"
	ExecutionDryRun    ExecutionType = "dry_run"
)

// ExecutionStatus summarises a run.
type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionPartial ExecutionStatus = "partial"
	ExecutionFailed  ExecutionStatus = "failed"
)

// ChangeOutcome is the per-item result of a run.
type ChangeOutcome string

const (
	OutcomeGenerated ChangeOutcome = "generated"
	OutcomeSkipped   ChangeOutcome = "skipped"
	OutcomeError     ChangeOutcome = "error"
)

// ItemChange describes what a run computed for one item. OldPrice is nil
// when the target book had no entry.
type ItemChange struct {
	ItemID   string
	OldPrice *Money
	NewPrice *Money
	Outcome  ChangeOutcome
	Reason   string
}

// Execution is the immutable record of one policy run.
type Execution struct {
	id          string
	policyID    string
	priceBookID string
	executedAt  time.Time
	execType    ExecutionType
	processed   int
	generated   int
	errors      int
	status      ExecutionStatus
	log         string
	changes     []ItemChange
}

// NewExecution summarises changes into a new record.
func NewExecution(id, policyID, priceBookID string, execType ExecutionType, changes []ItemChange, at time.Time) *Execution {
	e := &Execution{
		id:          id,
		policyID:    policyID,
		priceBookID: priceBookID,
		executedAt:  at,
		execType:    execType,
		processed:   len(changes),
		changes:     append([]ItemChange(nil), changes...),
	}
	skipped := 0
	for _, c := range changes {
		switch c.Outcome {
		case OutcomeGenerated:
			e.generated++
		case OutcomeError:
			e.errors++
		case OutcomeSkipped:
			skipped++
		}
	}
	e.status = ExecutionStatusFor(e.processed, e.generated, e.errors)
	e.log = fmt.Sprintf("%s run of policy %s: %d processed, %d generated, %d skipped, %d errors",
		execType, policyID, e.processed, e.generated, skipped, e.errors)
	return e
}

// ReconstructExecution rebuilds a record from storage.
func ReconstructExecution(
	id, policyID, priceBookID string,
	execType ExecutionType,
	processed, generated, errors int,
	status ExecutionStatus,
	log string,
	changes []ItemChange,
	at time.Time,
) *Execution {
	return &Execution{
		id:          id,
		policyID:    policyID,
		priceBookID: priceBookID,
		executedAt:  at,
		execType:    execType,
		processed:   processed,
		generated:   generated,
		errors:      errors,
		status:      status,
		log:         log,
		changes:     changes,
	}
}

// ExecutionStatusFor derives the run status from its counts. A run that
// processed items but generated no price is Failed even when every item was
// skipped; an empty scope is a Success.
func ExecutionStatusFor(processed, generated, errors int) ExecutionStatus {
	switch {
	case processed > 0 && generated == 0:
		return ExecutionFailed
	case errors == 0:
		return ExecutionSuccess
	default:
		return ExecutionPartial
	}
}

func (e *Execution) ID() string              { return e.id }
func (e *Execution) PolicyID() string        { return e.policyID }
func (e *Execution) PriceBookID() string     { return e.priceBookID }
func (e *Execution) ExecutedAt() time.Time   { return e.executedAt }
func (e *Execution) Type() ExecutionType     { return e.execType }
func (e *Execution) Processed() int          { return e.processed }
func (e *Execution) Generated() int          { return e.generated }
func (e *Execution) Errors() int             { return e.errors }
func (e *Execution) Status() ExecutionStatus { return e.status }
func (e *Execution) Log() string             { return e.log }
func (e *Execution) IsDryRun() bool          { return e.execType == ExecutionDryRun }

// Changes returns a copy of the per-item changes.
func (e *Execution) Changes() []ItemChange {
	return append([]ItemChange(nil), e.changes...)
}

package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/models/m_policy_execution"
	"github.com/light-bringer/pricing-engine/internal/pkg/query"
)

// defaultExecutionLimit caps ListByPolicy when no limit is given.
const defaultExecutionLimit = 50

// ExecutionRepo implements ExecutionRepository for Spanner.
type ExecutionRepo struct {
	client *spanner.Client
	model  *m_policy_execution.Model
}

// NewExecutionRepo creates a new ExecutionRepo.
func NewExecutionRepo(client *spanner.Client) contracts.ExecutionRepository {
	return &ExecutionRepo{
		client: client,
		model:  m_policy_execution.NewModel(),
	}
}

// InsertMut creates a mutation recording one execution with its item changes.
func (r *ExecutionRepo) InsertMut(exec *domain.Execution) (*spanner.Mutation, error) {
	return r.model.InsertMut(executionToData(exec)), nil
}

// ListByPolicy returns the latest executions of a policy, newest first.
func (r *ExecutionRepo) ListByPolicy(ctx context.Context, policyID string, limit int) ([]*domain.Execution, error) {
	if limit <= 0 {
		limit = defaultExecutionLimit
	}
	stmt := query.From(m_policy_execution.TableName).
		Select(m_policy_execution.Columns...).
		Where(query.Eq(m_policy_execution.PolicyID, policyID)).
		OrderBy(m_policy_execution.ExecutedAt, query.Desc).
		Limit(int64(limit)).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var out []*domain.Execution
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate executions: %w", err)
		}
		var data m_policy_execution.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse execution: %w", err)
		}
		exec, err := dataToExecution(&data)
		if err != nil {
			return nil, err
		}
		out = append(out, exec)
	}
	return out, nil
}

func executionToData(exec *domain.Execution) *m_policy_execution.Data {
	changes := make([]m_policy_execution.Change, 0, len(exec.Changes()))
	for _, c := range exec.Changes() {
		stored := m_policy_execution.Change{
			ItemID:  c.ItemID,
			Outcome: string(c.Outcome),
			Reason:  c.Reason,
		}
		if c.OldPrice != nil {
			stored.OldPrice = c.OldPrice.String()
		}
		if c.NewPrice != nil {
			stored.NewPrice = c.NewPrice.String()
		}
		changes = append(changes, stored)
	}

	return &m_policy_execution.Data{
		ExecutionID:     exec.ID(),
		PolicyID:        exec.PolicyID(),
		PriceBookID:     exec.PriceBookID(),
		ExecutionType:   string(exec.Type()),
		ExecutedAt:      exec.ExecutedAt(),
		SkusProcessed:   int64(exec.Processed()),
		PricesGenerated: int64(exec.Generated()),
		ErrorsCount:     int64(exec.Errors()),
		Status:          string(exec.Status()),
		Log:             exec.Log(),
		Changes:         toJSON(changes),
	}
}

func dataToExecution(data *m_policy_execution.Data) (*domain.Execution, error) {
	raw, err := jsonBytes(data.Changes)
	if err != nil {
		return nil, err
	}
	var stored []m_policy_execution.Change
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, fmt.Errorf("execution %s: invalid changes: %w", data.ExecutionID, err)
		}
	}

	changes := make([]domain.ItemChange, 0, len(stored))
	for _, s := range stored {
		c := domain.ItemChange{ItemID: s.ItemID, Outcome: domain.ChangeOutcome(s.Outcome), Reason: s.Reason}
		if s.OldPrice != "" {
			if c.OldPrice, err = domain.ParseMoney(s.OldPrice); err != nil {
				return nil, err
			}
		}
		if s.NewPrice != "" {
			if c.NewPrice, err = domain.ParseMoney(s.NewPrice); err != nil {
				return nil, err
			}
		}
		changes = append(changes, c)
	}

	return domain.ReconstructExecution(
		data.ExecutionID,
		data.PolicyID,
		data.PriceBookID,
		domain.ExecutionType(data.ExecutionType),
		int(data.SkusProcessed),
		int(data.PricesGenerated),
		int(data.ErrorsCount),
		domain.ExecutionStatus(data.Status),
		data.Log,
		changes,
		data.ExecutedAt,
	), nil
}

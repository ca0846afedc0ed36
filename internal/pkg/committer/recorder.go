package committer

import (
	"context"
	"sync"
)

// Recorder is an Applier that keeps plans instead of writing them.
// Err, when set, is returned from every Apply and nothing is recorded.
type Recorder struct {
	mu    sync.Mutex
	plans []*CommitPlan
	Err   error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Apply records plan.
func (r *Recorder) Apply(_ context.Context, plan *CommitPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if plan.IsEmpty() {
		return nil
	}
	r.plans = append(r.plans, plan)
	return nil
}

// Plans returns the recorded plans in order.
func (r *Recorder) Plans() []*CommitPlan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*CommitPlan(nil), r.plans...)
}

// Last returns the most recent plan, or nil.
func (r *Recorder) Last() *CommitPlan {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.plans) == 0 {
		return nil
	}
	return r.plans[len(r.plans)-1]
}

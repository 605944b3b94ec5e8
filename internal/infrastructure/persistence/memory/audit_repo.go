package memory

import (
	"context"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/audit"
)

type auditRepo struct {
	s *Store
}

func (r *auditRepo) Append(_ context.Context, e audit.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.audits = append(r.s.audits, e)
	return nil
}

func (r *auditRepo) List(_ context.Context, limit int) ([]audit.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 || limit > len(r.s.audits) {
		limit = len(r.s.audits)
	}
	// Newest first.
	out := make([]audit.Event, 0, limit)
	for i := len(r.s.audits) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.s.audits[i])
	}
	return out, nil
}

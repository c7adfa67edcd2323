package memory

import (
	"context"
	"sort"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

type auditLogRepo Store

func (r *auditLogRepo) Append(_ context.Context, entry *entity.AuditLogEntry) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.audit = append(s.audit, cloneEntry(entry))
	return nil
}

func (r *auditLogRepo) Search(_ context.Context, ownerID string, filter entity.AuditFilter) ([]*entity.AuditLogEntry, int64, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*entity.AuditLogEntry
	for _, e := range s.audit {
		if e.OwnerID == ownerID && filter.Matches(e) {
			matched = append(matched, e)
		}
	}
	newestFirst(matched)

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []*entity.AuditLogEntry{}, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return copyEntries(matched[filter.Offset:end]), total, nil
}

func (r *auditLogRepo) History(_ context.Context, ownerID string, kind entity.EntityKind, entityID string) ([]*entity.AuditLogEntry, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*entity.AuditLogEntry
	for _, e := range s.audit {
		if e.OwnerID == ownerID && e.EntityKind == kind && e.EntityID == entityID {
			matched = append(matched, e)
		}
	}
	newestFirst(matched)
	return copyEntries(matched), nil
}

// newestFirst sorts by timestamp descending; insertion order breaks ties, later first.
func newestFirst(entries []*entity.AuditLogEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}

func copyEntries(in []*entity.AuditLogEntry) []*entity.AuditLogEntry {
	out := make([]*entity.AuditLogEntry, 0, len(in))
	for _, e := range in {
		out = append(out, cloneEntry(e))
	}
	return out
}

// cloneEntry shares nothing mutable with e, so stored entries cannot change after Append.
func cloneEntry(e *entity.AuditLogEntry) *entity.AuditLogEntry {
	cp := *e
	cp.PerformerName = cloneString(e.PerformerName)
	cp.EntityName = cloneString(e.EntityName)
	if e.Changes != nil {
		cp.Changes = make([]entity.FieldChange, len(e.Changes))
		for i, c := range e.Changes {
			cp.Changes[i] = entity.FieldChange{
				Field:    c.Field,
				OldValue: cloneValue(c.OldValue),
				NewValue: cloneValue(c.NewValue),
			}
		}
	}
	if e.Metadata != nil {
		cp.Metadata = cloneValue(e.Metadata).(map[string]interface{})
	}
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// cloneValue copies the JSON-shaped containers metadata and change values are built from.
func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}

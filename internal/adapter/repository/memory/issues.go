package memory

import (
	"context"
	"fmt"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

type issueRepo Store

func (r *issueRepo) ListByOwner(_ context.Context, ownerID string, filter entity.IssueFilter) ([]*entity.ComplianceIssue, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.ComplianceIssue, 0, len(s.issues[ownerID]))
	for _, issue := range s.issues[ownerID] {
		if filter.Matches(issue) {
			out = append(out, copyIssue(issue))
		}
	}
	return out, nil
}

func (r *issueRepo) GetByID(_ context.Context, ownerID, issueID string) (*entity.ComplianceIssue, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, issue := range s.issues[ownerID] {
		if issue.ID == issueID {
			return copyIssue(issue), nil
		}
	}
	return nil, nil
}

func (r *issueRepo) ReplaceAll(_ context.Context, ownerID string, issues []*entity.ComplianceIssue) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*entity.ComplianceIssue, 0, len(issues))
	for _, issue := range issues {
		next = append(next, copyIssue(issue))
	}
	s.issues[ownerID] = next
	return nil
}

func (r *issueRepo) Update(_ context.Context, issue *entity.ComplianceIssue) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.issues[issue.OwnerID] {
		if existing.ID == issue.ID {
			s.issues[issue.OwnerID][i] = copyIssue(issue)
			return nil
		}
	}
	return fmt.Errorf("compliance issue %s not found", issue.ID)
}

func copyIssue(in *entity.ComplianceIssue) *entity.ComplianceIssue {
	cp := *in
	if in.DueDate != nil {
		d := *in.DueDate
		cp.DueDate = &d
	}
	if in.Resolution != nil {
		res := *in.Resolution
		cp.Resolution = &res
	}
	return &cp
}

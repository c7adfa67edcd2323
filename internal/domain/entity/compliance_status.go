package entity

import "time"

const (
	MaxComplianceScore = 100
	// CompliantScoreThreshold is the minimum score for a passing verdict.
	CompliantScoreThreshold = 80
)

type ComplianceStatus struct {
	IsCompliant bool               `json:"isCompliant"`
	Score       int                `json:"score"`
	Issues      []*ComplianceIssue `json:"issues"`
	EvaluatedAt time.Time          `json:"lastChecked"`
}

// ScoreIssues folds the active issues into a 0..100 score.
func ScoreIssues(issues []*ComplianceIssue) int {
	score := MaxComplianceScore
	for _, issue := range issues {
		if issue.Status.Active() {
			score -= issue.Severity.Deduction()
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// IsCompliant requires a passing score and no active CRITICAL issue.
func IsCompliant(issues []*ComplianceIssue) bool {
	if ScoreIssues(issues) < CompliantScoreThreshold {
		return false
	}
	for _, issue := range issues {
		if issue.Status.Active() && issue.Severity == SeverityCritical {
			return false
		}
	}
	return true
}

// NewComplianceStatus derives the status from an issue set.
func NewComplianceStatus(issues []*ComplianceIssue, evaluatedAt time.Time) *ComplianceStatus {
	if issues == nil {
		issues = []*ComplianceIssue{}
	}
	return &ComplianceStatus{
		IsCompliant: IsCompliant(issues),
		Score:       ScoreIssues(issues),
		Issues:      issues,
		EvaluatedAt: evaluatedAt,
	}
}

type ComplianceReport struct {
	Status           *ComplianceStatus        `json:"status"`
	IssuesBySeverity map[Severity]int         `json:"issuesBySeverity"`
	IssuesByType     map[IssueType]int        `json:"issuesByType"`
	DriverHours      []*DriverHoursCompliance `json:"driverHours"`
	VehiclesChecked  int                      `json:"vehiclesChecked"`
	GeneratedAt      time.Time                `json:"generatedAt"`
}

package constants

// JobStatus is the canonical status for rows in score_reports.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusReceived   JobStatus = "RECEIVED"   // webhook payload accepted
	JobStatusNormalized JobStatus = "NORMALIZED" // stage 1 completed (policies parsed)
	JobStatusGraded     JobStatus = "GRADED"     // stage 2 completed (scores returned)
	JobStatusFailed     JobStatus = "FAILED"     // terminal failure
)

var allJobStatuses = []JobStatus{
	JobStatusReceived,
	JobStatusNormalized,
	JobStatusGraded,
	JobStatusFailed,
}

func JobStatusesAsStrings() []string {
	result := make([]string, len(allJobStatuses))
	for i, s := range allJobStatuses {
		result[i] = string(s)
	}
	return result
}

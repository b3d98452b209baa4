package models

/*
Job status constants for use throughout the codebase.
A job is written exactly twice: once as processing when it is submitted,
and once more with a terminal status. Terminal statuses are never overwritten.
*/

const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

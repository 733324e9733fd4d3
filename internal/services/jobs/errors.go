package jobs

import (
	"errors"

	apperrors "github.com/killallgit/autocut/pkg/errors"
)

var (
	// ErrJobNotFound is returned when no job matches, or when a conditional
	// update found the job in another state.
	ErrJobNotFound = apperrors.New(apperrors.ErrCodeNotFound, "job not found")

	// ErrNoJobsAvailable is returned by ClaimNextJob on an empty queue
	ErrNoJobsAvailable = errors.New("no jobs available")

	// ErrJobNotRetryable is returned when retrying a job that has not failed
	ErrJobNotRetryable = errors.New("job is not retryable")
)

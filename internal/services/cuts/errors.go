package cuts

import apperrors "github.com/killallgit/autocut/pkg/errors"

var (
	// ErrCutNotFound is returned when no cut record matches
	ErrCutNotFound = apperrors.New(apperrors.ErrCodeNotFound, "cut record not found")

	// ErrInvalidCut is returned when a record is missing its paths or frame rate
	ErrInvalidCut = apperrors.New(apperrors.ErrCodeValidation, "invalid cut record")
)

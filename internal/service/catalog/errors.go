package catalog

import "errors"

var (
	ErrNotAnOwner      = errors.New("principal is not an owner")
	ErrGymNotFound     = errors.New("gym not found")
	ErrNotGymOwner     = errors.New("gym belongs to another owner")
	ErrInvalidLocation = errors.New("invalid gym location")
	ErrInvalidPlan     = errors.New("invalid plan")
)

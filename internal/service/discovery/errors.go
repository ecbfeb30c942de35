package discovery

import "errors"

var ErrGymNotFound = errors.New("gym not found")

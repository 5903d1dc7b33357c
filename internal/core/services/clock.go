package services

import "time"

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

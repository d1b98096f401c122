package domain

import "time"

// Agent represents a team member registered in a workspace roster.
// Names are unique per workspace, case-sensitive.
type Agent struct {
	ID             string
	WorkspaceEmail string
	Name           string
	CreatedAt      time.Time
}

package domain

import "time"

// DocType represents a document category in a workspace catalog.
// Names are unique per workspace. The catalog is independent of transactions:
// transactions record the type name as text, so deleting a DocType never
// invalidates existing records.
type DocType struct {
	ID             string
	WorkspaceEmail string
	Name           string
	CreatedAt      time.Time
}

package models

import "time"

// MicroAction is a small checkable task owned by a single domain
type MicroAction struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Domain represents a life area tracked independently each day
type Domain struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Name       string        `json:"name"`
	Icon       string        `json:"icon"`
	Color      string        `json:"color"`
	Actions    []MicroAction `json:"actions"`
	IsCore     bool          `json:"is_core"`
	XPEnabled  bool          `json:"xp_enabled"`
	Disabled   bool          `json:"disabled"`
	Position   int           `json:"position"`
	CreatedAt  time.Time     `json:"created_at"`
	ArchivedAt *time.Time    `json:"archived_at,omitempty"`
}

// IsArchived reports whether the domain has been moved to the archive
func (d Domain) IsArchived() bool {
	return d.ArchivedAt != nil
}

// IsActive reports whether the domain takes part in daily check-ins
func (d Domain) IsActive() bool {
	return d.ArchivedAt == nil && !d.Disabled
}

// FindAction returns the micro-action with the given id or label.
func (d Domain) FindAction(ref string) (MicroAction, bool) {
	for _, a := range d.Actions {
		if a.ID == ref || a.Label == ref {
			return a, true
		}
	}
	return MicroAction{}, false
}

// ActiveDomainIDs returns the ids of the active domains, preserving order.
func ActiveDomainIDs(domains []Domain) []string {
	ids := make([]string, 0, len(domains))
	for _, d := range domains {
		if d.IsActive() {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// CountActive returns how many of the given domains are active
func CountActive(domains []Domain) int {
	n := 0
	for _, d := range domains {
		if d.IsActive() {
			n++
		}
	}
	return n
}

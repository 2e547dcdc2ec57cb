package scoring

import (
	"errors"
	"fmt"
	"slices"

	"github.com/julianstephens/compoundverse/internal/models"
)

var (
	ErrUnknownDomain = errors.New("unknown domain")
	ErrUnknownAction = errors.New("unknown micro-action")
)

// Completion is the per-domain record for one day over the active domains.
type Completion struct {
	Domains    map[string]int      `json:"domains"`
	Selections map[string][]string `json:"selections"`
}

// Record validates the selected micro-actions against the active domains and
// builds the completion record. Selections are keyed by domain id and hold
// action ids or labels. A domain is done when at least one of its actions was
// selected, or when it has no actions and its key is present.
func Record(domains []models.Domain, selections map[string][]string) (Completion, error) {
	active := make(map[string]models.Domain, len(domains))
	c := Completion{
		Domains:    map[string]int{},
		Selections: map[string][]string{},
	}
	for _, d := range domains {
		if !d.IsActive() {
			continue
		}
		active[d.ID] = d
		c.Domains[d.ID] = 0
	}

	for domainID, refs := range selections {
		d, ok := active[domainID]
		if !ok {
			return Completion{}, fmt.Errorf("%w: %s", ErrUnknownDomain, domainID)
		}

		if len(d.Actions) == 0 {
			c.Domains[domainID] = 1
			continue
		}

		var picked []string
		for _, ref := range refs {
			action, ok := d.FindAction(ref)
			if !ok {
				return Completion{}, fmt.Errorf("%w: %s in domain %s", ErrUnknownAction, ref, domainID)
			}
			if !slices.Contains(picked, action.ID) {
				picked = append(picked, action.ID)
			}
		}
		if len(picked) > 0 {
			c.Domains[domainID] = 1
			c.Selections[domainID] = picked
		}
	}

	return c, nil
}

package registry

import (
	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/models"
)

var coreDefaults = map[string]struct {
	name, icon, color string
	actions           []models.MicroAction
}{
	constants.DomainHealth: {
		name: "Health", icon: "💪", color: "#22c55e",
		actions: []models.MicroAction{
			{ID: "move", Label: "Move for 20 minutes"},
			{ID: "water", Label: "Drink 8 glasses of water"},
			{ID: "sleep", Label: "In bed by 11pm"},
		},
	},
	constants.DomainFaith: {
		name: "Faith", icon: "🙏", color: "#a855f7",
		actions: []models.MicroAction{
			{ID: "pray", Label: "Pray"},
			{ID: "read", Label: "Read scripture"},
			{ID: "gratitude", Label: "Write one gratitude"},
		},
	},
	constants.DomainCareer: {
		name: "Career", icon: "💼", color: "#3b82f6",
		actions: []models.MicroAction{
			{ID: "deep-work", Label: "One deep work block"},
			{ID: "learn", Label: "Learn something new"},
			{ID: "reach-out", Label: "Reach out to someone"},
		},
	},
}

func coreDomain(id string) models.Domain {
	def := coreDefaults[id]
	actions := make([]models.MicroAction, len(def.actions))
	copy(actions, def.actions)
	return models.Domain{
		ID:        id,
		Name:      def.name,
		Icon:      def.icon,
		Color:     def.color,
		Actions:   actions,
		IsCore:    true,
		XPEnabled: true,
	}
}

package constants

// Trend classifies how momentum moved against the previous window
type Trend string

const (
	AppName            = "compoundverse"
	DefaultKeyringUser = "database-connection"
	OpenAIKeyringUser  = "openai-api-key"
	DefaultConfigPath  = "~/.config/compoundverse/compoundverse.db"
	DefaultUserID      = "local"
	Version            = "v0.3.0"

	// MaxActiveDomains caps how many domains count toward a day at once
	MaxActiveDomains = 5

	// Core domain identifiers. Core domains can be disabled but never archived or deleted.
	DomainHealth = "health"
	DomainFaith  = "faith"
	DomainCareer = "career"

	// Trend values
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"

	// Coach actions
	CoachActionGreeting    = "greeting"
	CoachActionStarterPack = "starter_pack"
	CoachActionAnalysis    = "analysis"

	// HTTP
	UserIDHeader = "X-User-ID"
)

// CoreDomains lists the permanent domains seeded for every user, in display order.
var CoreDomains = []string{DomainHealth, DomainFaith, DomainCareer}

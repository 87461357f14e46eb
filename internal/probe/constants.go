package probe

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	DefaultWorkers          = 8
)

// Score bounds reported by the service.
const (
	maxMatchScore       = 1.0
	maxOpportunityScore = 100
)

// DefaultRoles are queried when Config.Roles is empty.
var DefaultRoles = []string{"vendor", "service_provider", "consultant"}

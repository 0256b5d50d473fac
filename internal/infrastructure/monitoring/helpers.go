package monitoring

// Frame resolver tiers, used as the "tier" label
const (
	TierCache  = "cache"
	TierStore  = "store"
	TierBundle = "bundle"
)

// Lookup outcomes, used as the "outcome" label
const (
	OutcomeHit  = "hit"
	OutcomeMiss = "miss"
)

// Start results, used as the "result" label
const (
	StartStarted  = "started"
	StartRejected = "rejected"
	StartFailed   = "failed"
)

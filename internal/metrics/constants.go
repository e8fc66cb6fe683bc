package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "floris_http_requests_total"
	MetricNameHTTPRequestDuration  = "floris_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "floris_http_requests_in_flight"

	MetricNameGachaDraws    = "floris_gacha_draws_total"
	MetricNameFlowersSold   = "floris_flowers_sold_total"
	MetricNameSharesCreated = "floris_shares_created_total"
	MetricNameClaims        = "floris_claims_total"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"

	HelpTextGachaDraws    = "Total gacha draws by rarity"
	HelpTextFlowersSold   = "Total flower instances sold by catalog id"
	HelpTextSharesCreated = "Total share links created"
	HelpTextClaims        = "Total claim attempts by outcome"
)

// Label names
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelRarity  = "rarity"
	LabelFlower  = "flower_id"
	LabelOutcome = "outcome"
)

// Claim outcome label values
const (
	OutcomeClaimed        = "claimed"
	OutcomeExpired        = "expired"
	OutcomeAlreadyClaimed = "already_claimed"
	OutcomeSelfClaim      = "self_claim"
)

// HTTPLatencyBuckets covers fast local handlers through slow store round-trips
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

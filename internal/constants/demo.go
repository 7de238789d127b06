package constants

// Fixed starter questions used when the remote suggestion fetch fails.
// Degraded-mode content, not an error.
var FallbackSuggestions = []string{
	"What is the total revenue?",
	"Show top 10 customers by sales",
	"What are the best selling products?",
	"Display monthly sales trend",
	"Which categories perform best?",
	"Show revenue by region",
	"List most profitable items",
	"Compare this year to last year",
}

// Shown as the assistant text when the query service host is unreachable.
const ConnectionFailureMessage = "The query service is not reachable. Check that it is running and that QUERY_SERVICE_URL points at it."

const ServiceFailureMessage = "Sorry, I encountered an error processing your question."

const DemoFallbackNotice = "Showing demo data for illustration:"

// Demo fallback payload. Fabricated example content so the assistant stays
// demonstrable while the query service is offline; only used when
// DEMO_FALLBACK_ENABLED is set.
const DemoGeneratedQuery = "SELECT category, SUM(revenue) as total FROM sales GROUP BY category"

var DemoResultColumns = []string{"category", "total"}

var DemoResultRows = []map[string]any{
	{"category": "Electronics", "total": 125000},
	{"category": "Clothing", "total": 89000},
	{"category": "Home", "total": 67000},
}

var DemoFollowUpQuestions = []string{
	"Show trend over time",
	"Break down by region",
	"Compare to last year",
}

const DemoConfidence = 0.85

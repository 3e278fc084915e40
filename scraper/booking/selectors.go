package booking

// CSS selectors for the search results markup.
const (
	CardSelector     = `div[data-testid="property-card"]`
	NameSelector     = `div[data-testid="title"]`
	LinkSelector     = `a[data-testid="title-link"]`
	LocationSelector = `span[data-testid="address"]`
	PriceSelector    = `span[data-testid="price-and-discounted-price"]`
	RatingSelector   = `div[data-testid="review-score"]`
)

// Optional page controls probed during acquisition.
var (
	CookieRejectControl = Control{
		Name:    "cookie-reject",
		Query:   `//button[contains(text(), 'Reject')]`,
		ByXPath: true,
	}
	SignInDismissControl = Control{
		Name:  "sign-in-dismiss",
		Query: `button[aria-label="Dismiss sign-in info."]`,
	}
	LoadMoreControl = Control{
		Name:    "load-more",
		Query:   `//button[contains(text(), 'Load more results')]`,
		ByXPath: true,
	}
)

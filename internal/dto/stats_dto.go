package dto

// StatusCount is the number of tenders holding one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CategoryCount is the number of tenders within one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// BudgetStats aggregates tender budgets over the selected window.
type BudgetStats struct {
	TotalBudget float64 `json:"total_budget"`
	AvgBudget   float64 `json:"avg_budget"`
	MinBudget   float64 `json:"min_budget"`
	MaxBudget   float64 `json:"max_budget"`
}

// SubmissionTotals aggregates bid amounts across all submissions of the
// matching tenders. Empty sets report zeroes, never nulls.
type SubmissionTotals struct {
	TotalSubmissions int64   `json:"total_submissions"`
	AvgAmount        float64 `json:"avg_amount"`
	MinAmount        float64 `json:"min_amount"`
	MaxAmount        float64 `json:"max_amount"`
}

// BidderRank places one bidder in the top-N ranking by submission count.
type BidderRank struct {
	BidderID         uint  `json:"bidder_id"`
	SubmissionsCount int64 `json:"submissions_count"`
}

// GeneralStats groups the headline counters of the statistics payload.
type GeneralStats struct {
	Total             int64           `json:"total"`
	StatusBreakdown   []StatusCount   `json:"status_breakdown"`
	CategoryBreakdown []CategoryCount `json:"category_breakdown"`
}

// DetailedStatsResponse is the aggregate statistics payload.
type DetailedStatsResponse struct {
	General     GeneralStats     `json:"general"`
	Financial   BudgetStats      `json:"financial"`
	Submissions SubmissionTotals `json:"submissions"`
	TopBidders  []BidderRank     `json:"top_bidders"`
}

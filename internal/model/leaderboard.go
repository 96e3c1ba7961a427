package model

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

func (p Period) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth || p == PeriodAll
}

// LeaderboardEntry is derived per request and never stored as a source of truth.
type LeaderboardEntry struct {
	Profile
	Rank       int   `json:"rank"`
	FinalScore int64 `json:"finalScore"`
}

type PlatformStats struct {
	TotalBuilders  int64 `json:"totalBuilders"`
	TotalBuilds    int64 `json:"totalBuilds"`
	TotalUpvotes   int64 `json:"totalUpvotes"`
	ActiveBuilders int64 `json:"activeBuilders"`
}

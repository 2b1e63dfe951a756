package model

// PerformanceMetrics is the EPA-with-breakdown view of one team season.
// An absent value is represented by the caller, never by zeros here.
type PerformanceMetrics struct {
	Overall   float64
	Auto      float64
	Teleop    float64
	WorldRank int
}

// SpecialtyStats are alliance averages from the team's latest event.
type SpecialtyStats struct {
	EventKey  string
	EventName string
	Matches   int
	AvgCoral  float64
	AvgAlgae  float64
	ClimbRate float64 // 0..1, share of matches where the team's own robot climbed
}

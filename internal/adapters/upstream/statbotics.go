package upstream

import (
	"context"
	"fmt"

	"github.com/okian/frcscout/internal/domain/model"
)

// DefaultStatboticsBaseURL is the Statbotics v3 API root.
const DefaultStatboticsBaseURL = "https://api.statbotics.io/v3"

const statboticsProvider = "statbotics"

// Statbotics is the performance-metrics client. It needs no credentials.
type Statbotics struct {
	*Client
}

// NewStatbotics returns a metrics client.
func NewStatbotics(baseURL string, opts ...Option) *Statbotics {
	if baseURL == "" {
		baseURL = DefaultStatboticsBaseURL
	}
	return &Statbotics{Client: newClient(statboticsProvider, baseURL, opts...)}
}

type teamYear struct {
	EPA struct {
		TotalPoints struct {
			Mean float64 `json:"mean"`
		} `json:"total_points"`
		Breakdown struct {
			AutoPoints   float64 `json:"auto_points"`
			TeleopPoints float64 `json:"teleop_points"`
		} `json:"breakdown"`
		Ranks struct {
			Total struct {
				Rank int `json:"rank"`
			} `json:"total"`
		} `json:"ranks"`
	} `json:"epa"`
}

// TeamYear fetches the EPA summary of teamID in season.
func (s *Statbotics) TeamYear(ctx context.Context, teamID string, season int) (model.PerformanceMetrics, error) {
	var dto teamYear
	path := fmt.Sprintf("/team_year/%s/%d", teamID, season)
	if err := s.getJSON(ctx, "team_year", path, &dto); err != nil {
		return model.PerformanceMetrics{}, err
	}
	return model.PerformanceMetrics{
		Overall:   dto.EPA.TotalPoints.Mean,
		Auto:      dto.EPA.Breakdown.AutoPoints,
		Teleop:    dto.EPA.Breakdown.TeleopPoints,
		WorldRank: dto.EPA.Ranks.Total.Rank,
	}, nil
}

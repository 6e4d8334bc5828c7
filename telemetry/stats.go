package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the course of an epidemic over a recorded run.
type Summary struct {
	Frames int `csv:"frames"`

	PeakInfected float64 `csv:"peak_infected"` // percent
	PeakFrame    int     `csv:"peak_frame"`
	MeanInfected float64 `csv:"mean_infected"`
	StdInfected  float64 `csv:"std_infected"`

	FinalHealthy   float64 `csv:"final_healthy"`
	FinalInfected  float64 `csv:"final_infected"`
	FinalRecovered float64 `csv:"final_recovered"`

	// AttackRate is the share of the population that was ever infected.
	AttackRate float64 `csv:"attack_rate"`

	// EndFrame is the first frame after the peak with no infected balls (-1 = still spreading).
	EndFrame int `csv:"end_frame"`
}

// Summarize computes a Summary from the tracker. An empty tracker gives a zero Summary.
func Summarize(p *PopulationHealth) Summary {
	n := p.Len()
	if n == 0 {
		return Summary{EndFrame: -1}
	}
	infected := p.Infected()

	s := Summary{
		Frames:         n,
		PeakFrame:      floats.MaxIdx(infected),
		MeanInfected:   stat.Mean(infected, nil),
		FinalHealthy:   p.Healthy()[n-1],
		FinalInfected:  infected[n-1],
		FinalRecovered: p.Recovered()[n-1],
		EndFrame:       -1,
	}
	s.PeakInfected = infected[s.PeakFrame]
	if n > 1 {
		s.StdInfected = stat.StdDev(infected, nil)
	}
	s.AttackRate = s.FinalInfected + s.FinalRecovered

	for i := s.PeakFrame; i < n; i++ {
		if infected[i] == 0 {
			s.EndFrame = i
			break
		}
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Float64("peak_infected", s.PeakInfected),
		slog.Int("peak_frame", s.PeakFrame),
		slog.Float64("mean_infected", s.MeanInfected),
		slog.Float64("std_infected", s.StdInfected),
		slog.Float64("final_healthy", s.FinalHealthy),
		slog.Float64("final_infected", s.FinalInfected),
		slog.Float64("final_recovered", s.FinalRecovered),
		slog.Float64("attack_rate", s.AttackRate),
		slog.Int("end_frame", s.EndFrame),
	)
}

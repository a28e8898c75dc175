package extraction

import "math"

// Scoring holds the overall confidence weights. The values are empirical;
// DefaultScoring returns the ones in production use.
type Scoring struct {
	TotalWeight    float64
	DateWeight     float64
	IdentityWeight float64

	HighPenalty   float64
	MediumPenalty float64
	LowPenalty    float64

	// LowThreshold is the score under which overall_confidence_low is raised.
	LowThreshold float64
}

// DefaultScoring returns the standard weights.
func DefaultScoring() Scoring {
	return Scoring{
		TotalWeight:    0.55,
		DateWeight:     0.20,
		IdentityWeight: 0.25,
		HighPenalty:    0.20,
		MediumPenalty:  0.10,
		LowPenalty:     0.05,
		LowThreshold:   0.60,
	}
}

func (s Scoring) penalty(sev Severity) float64 {
	switch sev {
	case SeverityHigh:
		return s.HighPenalty
	case SeverityMedium:
		return s.MediumPenalty
	case SeverityLow:
		return s.LowPenalty
	}
	return 0
}

// score combines field confidences and warning penalties into one value in
// [0,1], rounded to two decimals. Only the VKN counts as the identity term.
func (s Scoring) score(fields map[string]*Field, ws []Warning) float64 {
	var v float64
	if f, ok := fields[FieldTotalIncludingVAT]; ok {
		v += f.Confidence * s.TotalWeight
	}
	if f, ok := fields[FieldDate]; ok {
		v += f.Confidence * s.DateWeight
	}
	if f, ok := fields[FieldVKN]; ok {
		v += f.Confidence * s.IdentityWeight
	}

	var p float64
	for _, w := range ws {
		p += s.penalty(w.Severity)
	}
	return round2(math.Min(1.0, math.Max(0.0, v-p)))
}

package analytics

import (
	"math"
	"unicode/utf8"

	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// MetalShare is the review line of one metal entry.
type MetalShare struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	SharePercent       int    `json:"sharePercent"`
	PreferredTreatment string `json:"preferredTreatment"`
}

// Review holds the rough proxy figures shown on the review step.
type Review struct {
	EstimatedEmissions int          `json:"estimatedEmissions"`
	CircularityIndex   int          `json:"circularityIndex"`
	EstimatedCost      int          `json:"estimatedCost"`
	Metals             []MetalShare `json:"metals"`
}

// ReviewOf computes the review proxies of an in-progress project.
func ReviewOf(p project.Project) Review {
	n := len(p.Metals)
	recycled := 0.0
	if p.TargetRecycled != nil {
		recycled = *p.TargetRecycled
	}

	r := Review{
		EstimatedEmissions: max(0, int(math.Round(float64(n+nameLen(p))*120))),
		CircularityIndex:   int(math.Min(95, 30+float64(n*8)+math.Min(30, recycled))),
		EstimatedCost:      max(1000, max(1, n)*1250),
		Metals:             make([]MetalShare, 0, n),
	}
	for _, m := range p.Metals {
		l := utf8.RuneCountInString(m.Type)
		if l == 0 {
			l = 1
		}
		treatment := m.PreferredTreatment
		if treatment == "" {
			treatment = "Standard"
		}
		r.Metals = append(r.Metals, MetalShare{
			ID:                 m.ID,
			Type:               m.Type,
			SharePercent:       max(5, l*3),
			PreferredTreatment: treatment,
		})
	}
	return r
}

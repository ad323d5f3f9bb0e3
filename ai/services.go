package ai

import (
	"math"
	"strings"

	"app/store"
)

// Services bundles the analytics subsystems. Each method derives everything
// from the store on every call; no state is kept between invocations, so a
// single Services value is safe for concurrent use.
type Services struct {
	store    store.Store
	narrator Narrator
}

// NewServices constructs the analytics services from their collaborators.
func NewServices(st store.Store, narrator Narrator) *Services {
	return &Services{store: st, narrator: narrator}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// extractJSON pulls the outermost JSON object out of a free-text model
// response, which may be wrapped in markdown fences or prose.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

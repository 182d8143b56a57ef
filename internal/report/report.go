package report

import (
	"time"

	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/selection"
)

// Report is what gets printed.
type Report struct {
	Source      string                    `json:"source"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Seed        int64                     `json:"seed"`
	BestProps   []model.BetRecommendation `json:"best_props"`
	Slips       []model.Slip              `json:"slips"`
	HotCold     []selection.HotCold       `json:"hot_cold"`
	Misses      int                       `json:"lookup_misses"`
}

package csvload

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/okian/propcast/internal/domain/odds"
)

// WriteBestOdds writes the normalized odds table with a header row.
// Points always carry one decimal digit and missing values are empty.
func WriteBestOdds(w io.Writer, best []odds.BestOdds) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Player", "Best_Over_Odds", "Best_Under_Odds", "Best_Point"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range best {
		row := []string{b.Player, odds.FormatOdds(b.BestOver), odds.FormatOdds(b.BestUnder), odds.FormatPoint(b.Point)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", b.Player, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

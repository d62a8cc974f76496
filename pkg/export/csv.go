package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/medtime/medication-time/pkg/store"
)

// WriteDoseHistoryCSV writes a person's dose history, one row per resolved
// entry, header first.
func WriteDoseHistoryCSV(w io.Writer, records []store.DoseRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"logged_at", "medication", "slot_time", "action"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.LoggedAt.Local().Format(time.RFC3339),
			r.Medication,
			r.SlotTime,
			r.Action,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

var accountHeader = []string{"client", "available", "held", "total", "locked"}

// WriteAccounts writes the header followed by one row per account. The header
// is written even when there are no accounts.
func WriteAccounts(w io.Writer, accounts iter.Seq[models.Account]) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(accountHeader); err != nil {
		return fmt.Errorf("csvio: write header: %w", err)
	}

	row := make([]string, len(accountHeader))
	for account := range accounts {
		row[0] = strconv.FormatUint(uint64(account.Client), 10)
		row[1] = account.Available.String()
		row[2] = account.Held.String()
		row[3] = account.Total().String()
		row[4] = strconv.FormatBool(account.Locked)

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csvio: write client %d: %w", account.Client, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csvio: flush: %w", err)
	}
	return nil
}

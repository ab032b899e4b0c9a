// Package csvio converts between CSV files and engine records.
//
// Input rows look like
//
//	type, client, tx, amount
//	deposit, 1, 1, 1.0
//	dispute, 1, 1,
//
// and the output is one row per account:
//
//	client,available,held,total,locked
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

var errMissingColumn = errors.New("csvio: header is missing a required column")

const (
	colType   = "type"
	colClient = "client"
	colTx     = "tx"
	colAmount = "amount"
)

// Reader streams records from CSV input. Columns are located by header name.
type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

type columns struct {
	typ, client, tx, amount int
}

// Records yields one record per data row. Problems confined to a row are
// yielded as errors wrapping models.ErrMalformedRecord (or
// models.ErrAmountOverflow) and iteration continues; any other read error is
// yielded once and ends the sequence.
func (r *Reader) Records() iter.Seq2[models.Record, error] {
	return func(yield func(models.Record, error) bool) {
		cr := csv.NewReader(r.r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		cr.ReuseRecord = true

		var cols *columns
		for {
			row, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var parseErr *csv.ParseError
				if !errors.As(err, &parseErr) {
					yield(nil, fmt.Errorf("csvio: read: %w", err))
					return
				}
				if !yield(nil, fmt.Errorf("line %d: %w: %v", parseErr.Line, models.ErrMalformedRecord, err)) {
					return
				}
				continue
			}
			line, _ := cr.FieldPos(0)

			if cols == nil {
				cols, err = parseHeader(row)
				if err != nil {
					yield(nil, fmt.Errorf("line %d: %w", line, err))
					return
				}
				continue
			}

			record, err := parseRow(row, cols)
			if err != nil {
				err = fmt.Errorf("line %d: %w", line, err)
			}
			if !yield(record, err) {
				return
			}
		}
	}
}

// byteOrderMark is written by some spreadsheet exports ahead of the header.
const byteOrderMark = "\ufeff"

func parseHeader(row []string) (*columns, error) {
	cols := &columns{typ: -1, client: -1, tx: -1, amount: -1}
	for i, name := range row {
		if i == 0 {
			name = strings.TrimPrefix(name, byteOrderMark)
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case colType:
			cols.typ = i
		case colClient:
			cols.client = i
		case colTx:
			cols.tx = i
		case colAmount:
			cols.amount = i
		}
	}

	required := []struct {
		name string
		idx  int
	}{{colType, cols.typ}, {colClient, cols.client}, {colTx, cols.tx}}
	for _, c := range required {
		if c.idx < 0 {
			return nil, fmt.Errorf("%w: %q", errMissingColumn, c.name)
		}
	}
	return cols, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseRow(row []string, cols *columns) (models.Record, error) {
	kind := strings.ToLower(field(row, cols.typ))

	client, err := strconv.ParseUint(field(row, cols.client), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: client: %v", models.ErrMalformedRecord, err)
	}
	tx, err := strconv.ParseUint(field(row, cols.tx), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: tx: %v", models.ErrMalformedRecord, err)
	}
	clientID, txID := models.ClientID(client), models.TransactionID(tx)

	switch kind {
	case "deposit", "withdrawal":
		amount, err := parseAmount(field(row, cols.amount))
		if err != nil {
			return nil, fmt.Errorf("%s tx %d: %w", kind, txID, err)
		}
		if kind == "deposit" {
			return models.Deposit{Tx: txID, Client: clientID, Amount: amount}, nil
		}
		return models.Withdrawal{Tx: txID, Client: clientID, Amount: amount}, nil
	case "dispute":
		return models.Dispute{Tx: txID, Client: clientID}, nil
	case "resolve":
		return models.Resolve{Tx: txID, Client: clientID}, nil
	case "chargeback":
		return models.Chargeback{Tx: txID, Client: clientID}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %q", models.ErrMalformedRecord, kind)
	}
}

// parseAmount requires a positive amount. Overflow is reported as is so the
// caller can tell it apart from a malformed row.
func parseAmount(s string) (models.Amount, error) {
	if s == "" {
		return models.Amount{}, fmt.Errorf("%w: missing amount", models.ErrMalformedRecord)
	}
	amount, err := models.ParseAmount(s)
	if errors.Is(err, models.ErrAmountOverflow) {
		return models.Amount{}, err
	}
	if err != nil {
		return models.Amount{}, fmt.Errorf("%w: %v", models.ErrMalformedRecord, err)
	}
	if !amount.IsPositive() {
		return models.Amount{}, fmt.Errorf("%w: amount %s must be positive", models.ErrMalformedRecord, s)
	}
	return amount, nil
}

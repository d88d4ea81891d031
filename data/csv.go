package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// MissingPolicy decides what happens to an empty or unparseable cell.
type MissingPolicy int

const (
	MissingError MissingPolicy = iota
	MissingSkip
	MissingZero
	MissingMean
)

// Dataset is a set of labeled samples, one row per sample.
type Dataset struct {
	Inputs   [][]float64
	Expected [][]float64
}

func (d *Dataset) Len() int { return len(d.Inputs) }

// LoadCSVFile opens path and reads it with LoadCSV.
func LoadCSVFile(path string, inputCols, outputCols int, policy MissingPolicy) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSV(f, inputCols, outputCols, policy)
}

// LoadCSV reads a headed CSV where the first inputCols columns are features
// and the next outputCols columns are targets. Extra columns are ignored.
// Column means used by MissingMean are taken over every parseable non-empty
// cell before any row is dropped.
func LoadCSV(r io.Reader, inputCols, outputCols int, policy MissingPolicy) (*Dataset, error) {
	if inputCols <= 0 || outputCols <= 0 {
		return nil, fmt.Errorf("column counts must be positive, got %d inputs and %d outputs", inputCols, outputCols)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) > 0 {
		records = records[1:] // header
	}

	total := inputCols + outputCols
	means := columnMeans(records, total)

	ds := &Dataset{}
	for n, record := range records {
		row := make([]float64, total)
		skip := false

		for col := 0; col < total; col++ {
			v, ok := parseCell(record, col)
			if ok {
				row[col] = v
				continue
			}

			switch policy {
			case MissingError:
				return nil, fmt.Errorf("row %d column %d: %w", n+1, col, ErrMissingValue)
			case MissingSkip:
				skip = true
			case MissingZero:
				row[col] = 0
			case MissingMean:
				row[col] = means[col]
			default:
				return nil, fmt.Errorf("unknown missing value policy %d", int(policy))
			}
			if skip {
				break
			}
		}

		if skip {
			log.Debug().Int("row", n+1).Msg("skipping row with missing value")
			continue
		}
		ds.Inputs = append(ds.Inputs, row[:inputCols:inputCols])
		ds.Expected = append(ds.Expected, row[inputCols:])
	}
	return ds, nil
}

func parseCell(record []string, col int) (float64, bool) {
	if col >= len(record) {
		return 0, false
	}
	s := strings.TrimSpace(record[col])
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// columnMeans is 0 for a column without a single parseable cell.
func columnMeans(records [][]string, total int) []float64 {
	sums := make([]float64, total)
	counts := make([]int, total)
	for _, record := range records {
		for col := 0; col < total; col++ {
			if v, ok := parseCell(record, col); ok {
				sums[col] += v
				counts[col]++
			}
		}
	}
	for col := range sums {
		if counts[col] > 0 {
			sums[col] /= float64(counts[col])
		}
	}
	return sums
}

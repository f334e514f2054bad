package dataset

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

// DecodeExcel parses the first sheet of an .xlsx upload into member
// records. Rows are converted to the same record shape the CSV path uses,
// so header mapping and validation behave identically.
func (c *Codec) DecodeExcel(r io.Reader) ([]domain.Member, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return c.decodeRecords(rows)
}

package propsync

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Runs"

// BuildRunsReport renders the run history as an xlsx workbook.
func BuildRunsReport(runs []SyncRun) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", reportSheet)

	headers := []string{"Kind", "Start", "End", "Status", "Processed", "Succeeded", "Failed", "Error"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(reportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	const timeLayout = "2006-01-02 15:04:05"
	for row, run := range runs {
		values := []any{
			run.Kind,
			run.StartTime.Format(timeLayout),
			run.EndTime.Format(timeLayout),
			run.Status,
			run.Processed,
			run.Succeeded,
			run.Failed,
			run.Error,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing runs report: %w", err)
	}
	return buf, nil
}

package board

import (
	"github.com/danghoang/kvboard/internal/model"
	"google.golang.org/api/sheets/v4"
)

// Presentation-layer color tables. Domain enums stay plain strings; how a
// value renders lives here and nowhere else.
var statusColors = map[model.Status]*sheets.Color{
	model.StatusNotStarted: {Red: 0.96, Green: 0.80, Blue: 0.80},
	model.StatusInProgress: {Red: 1.00, Green: 0.95, Blue: 0.70},
	model.StatusDone:       {Red: 0.80, Green: 0.94, Blue: 0.80},
	model.StatusFlagged:    {Red: 1.00, Green: 0.85, Blue: 0.65},
	model.StatusClosed:     {Red: 0.85, Green: 0.85, Blue: 0.85},
	model.StatusCanceled:   {Red: 0.75, Green: 0.75, Blue: 0.75},
}

var delayColors = map[model.Delay]*sheets.Color{
	model.DelayNone:    {Red: 0.87, Green: 0.93, Blue: 0.87},
	model.DelayOnce:    {Red: 1.00, Green: 0.95, Blue: 0.70},
	model.DelayTwice:   {Red: 1.00, Green: 0.85, Blue: 0.65},
	model.DelayChronic: {Red: 0.96, Green: 0.70, Blue: 0.70},
}

// assigneePalette cycles over the configured assignee list.
var assigneePalette = []*sheets.Color{
	{Red: 0.85, Green: 0.91, Blue: 0.98},
	{Red: 0.98, Green: 0.91, Blue: 0.85},
	{Red: 0.91, Green: 0.85, Blue: 0.98},
	{Red: 0.85, Green: 0.98, Blue: 0.91},
	{Red: 0.98, Green: 0.85, Blue: 0.91},
}

var enumShade = &sheets.Color{Red: 0.97, Green: 0.97, Blue: 0.97}

// insertedRangeFormats formats exactly the freshly inserted rows
// [startRow, endRow): a plain-text baseline, an explicit datetime render on
// the receive-date column, forced text on both return-date columns so the
// spreadsheet never converts them into real dates, and a light shade on the
// dropdown columns.
func insertedRangeFormats(sheetID, startRow, endRow int64) []*sheets.Request {
	rng := func(startCol, endCol int64) *sheets.GridRange {
		return &sheets.GridRange{
			SheetId:          sheetID,
			StartRowIndex:    startRow,
			EndRowIndex:      endRow,
			StartColumnIndex: startCol,
			EndColumnIndex:   endCol,
		}
	}

	requests := []*sheets.Request{
		// Baseline: strip whatever formatting the surrounding rows leaked in.
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range:  rng(0, ColumnCount),
				Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{}},
				Fields: "userEnteredFormat",
			},
		},
		// Receive date renders as a datetime.
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: rng(ColReceiveDate, ColReceiveDate+1),
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "DATE_TIME",
							Pattern: "MM/dd/yyyy HH:mm",
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
	}

	// Return-date columns stay literal text.
	for _, col := range []int64{ColReturnDate, ColRescheduled} {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: rng(col, col+1),
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{Type: "TEXT", Pattern: "@"},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		})
	}

	// Shade the dropdown columns.
	for _, col := range []int64{ColStatus, ColAssignee, ColDelay} {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: rng(col, col+1),
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{BackgroundColor: enumShade},
				},
				Fields: "userEnteredFormat.backgroundColor",
			},
		})
	}

	return requests
}

// boardRuleRequests builds the dropdown validation and conditional color
// rules for the enum columns, from row 2 down to the fixed ceiling.
// Validation replaces any previous rule on the range. Re-adding the same
// conditional format rule is visually idempotent: the API keeps duplicate
// rule objects, but they render identically.
func boardRuleRequests(sheetID, rowCeiling int64, assignees []string) []*sheets.Request {
	colRange := func(col int64) *sheets.GridRange {
		return &sheets.GridRange{
			SheetId:          sheetID,
			StartRowIndex:    1,
			EndRowIndex:      rowCeiling,
			StartColumnIndex: col,
			EndColumnIndex:   col + 1,
		}
	}

	statusValues := make([]string, 0, len(model.AllStatuses()))
	for _, s := range model.AllStatuses() {
		statusValues = append(statusValues, string(s))
	}
	delayValues := make([]string, 0, len(model.AllDelays()))
	for _, d := range model.AllDelays() {
		delayValues = append(delayValues, string(d))
	}

	var requests []*sheets.Request

	dropdowns := []struct {
		col     int64
		allowed []string
	}{
		{ColStatus, statusValues},
		{ColAssignee, assignees},
		{ColDelay, delayValues},
	}
	for _, d := range dropdowns {
		requests = append(requests, &sheets.Request{
			SetDataValidation: &sheets.SetDataValidationRequest{
				Range: colRange(d.col),
				Rule: &sheets.DataValidationRule{
					Condition:    oneOfList(d.allowed),
					ShowCustomUi: true,
					Strict:       false,
				},
			},
		})
	}

	for _, s := range model.AllStatuses() {
		requests = append(requests, colorRule(colRange(ColStatus), string(s), statusColors[s]))
	}
	for _, d := range model.AllDelays() {
		requests = append(requests, colorRule(colRange(ColDelay), string(d), delayColors[d]))
	}
	for i, assignee := range assignees {
		requests = append(requests, colorRule(colRange(ColAssignee), assignee, assigneePalette[i%len(assigneePalette)]))
	}

	return requests
}

func oneOfList(values []string) *sheets.BooleanCondition {
	condValues := make([]*sheets.ConditionValue, 0, len(values))
	for _, v := range values {
		condValues = append(condValues, &sheets.ConditionValue{UserEnteredValue: v})
	}
	return &sheets.BooleanCondition{Type: "ONE_OF_LIST", Values: condValues}
}

func colorRule(rng *sheets.GridRange, value string, color *sheets.Color) *sheets.Request {
	return &sheets.Request{
		AddConditionalFormatRule: &sheets.AddConditionalFormatRuleRequest{
			Rule: &sheets.ConditionalFormatRule{
				Ranges: []*sheets.GridRange{rng},
				BooleanRule: &sheets.BooleanRule{
					Condition: &sheets.BooleanCondition{
						Type:   "TEXT_EQ",
						Values: []*sheets.ConditionValue{{UserEnteredValue: value}},
					},
					Format: &sheets.CellFormat{BackgroundColor: color},
				},
			},
		},
	}
}

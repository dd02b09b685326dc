// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable draws rows under headers with rounded borders. Headers keep
// their casing; short rows are padded with blanks.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}

	writer := table.NewWriter()
	writer.SetStyle(table.StyleRounded)
	writer.Style().Format.Header = text.FormatDefault

	writer.AppendHeader(toRow(headers, len(headers)))
	for _, row := range rows {
		writer.AppendRow(toRow(row, len(headers)))
	}

	configs := make([]table.ColumnConfig, len(headers))
	for index := range configs {
		configs[index] = table.ColumnConfig{
			Number:      index + 1,
			Align:       alignmentOf(aligns, index),
			AlignHeader: text.AlignLeft,
		}
	}
	writer.SetColumnConfigs(configs)

	return writer.Render() + "\n"
}

// toRow copies cells into a row of exactly width columns.
func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for index := range row {
		row[index] = ""
		if index < len(cells) {
			row[index] = cells[index]
		}
	}
	return row
}

func alignmentOf(aligns []columnAlignment, index int) text.Align {
	if index < len(aligns) && aligns[index] == alignRight {
		return text.AlignRight
	}
	return text.AlignLeft
}

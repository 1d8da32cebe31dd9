// Package importer provides CSV and Excel import functionality for panel lists.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition. Rows are grouped by laminate code into
// one material request each.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/LaminateCut/internal/model"
	"github.com/piwi3910/LaminateCut/internal/parser"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Requests []model.MaterialRequest
	Errors   []string
	Warnings []string
}

// Panels returns the total number of panel rows accepted.
func (r ImportResult) Panels() int {
	total := 0
	for _, req := range r.Requests {
		total += len(parser.Parse(req.PanelText).Items)
	}
	return total
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Code     int
	Width    int
	Height   int
	Quantity int
	Sheet    int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"code":     {"code", "laminate", "laminate code", "material", "mat", "decor"},
	"width":    {"width", "w", "length", "len", "x"},
	"height":   {"height", "h", "depth", "d", "y"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"sheet":    {"sheet", "sheet size", "size", "stock", "board"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Code:     -1,
		Width:    -1,
		Height:   -1,
		Quantity: -1,
		Sheet:    -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "code":
					if mapping.Code == -1 {
						mapping.Code = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "height":
					if mapping.Height == -1 {
						mapping.Height = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				case "sheet":
					if mapping.Sheet == -1 {
						mapping.Sheet = i
					}
				}
			}
		}
	}

	if !isHeader {
		// Fall back to positional mapping: Code, Width, Height, Quantity, Sheet
		return ColumnMapping{
			Code:     0,
			Width:    1,
			Height:   2,
			Quantity: 3,
			Sheet:    4,
		}, false
	}

	return mapping, true
}

// ParseSheetSize accepts a standard size label ("8x4 ft (1220x2440)") or a
// plain "<width>x<height>" in millimetres.
func ParseSheetSize(s string) (model.SheetSize, bool) {
	s = strings.TrimSpace(s)
	if size, ok := model.LookupSheetSize(s); ok {
		return size, true
	}
	w, h, qty, ok := parser.ParseLine(s)
	if !ok || qty != 1 || w <= 0 || h <= 0 {
		return model.SheetSize{}, false
	}
	return model.SheetSize{Label: fmt.Sprintf("%dx%d", w, h), Width: w, Height: h}, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// panelRow is one accepted row before grouping.
type panelRow struct {
	code          string
	width, height int
	quantity      int
	size          model.SheetSize
	hasSize       bool
}

// parseDimension reads a whole-millimetre value.
func parseDimension(rowLabel, name, s string) (int, string) {
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts a panel from a row using the given column mapping.
// Returns the row, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (panelRow, string, string) {
	code := getCell(row, mapping.Code)
	if code == "" {
		return panelRow{}, fmt.Sprintf("%s: Missing laminate code", rowLabel), ""
	}

	width, errMsg := parseDimension(rowLabel, "width", getCell(row, mapping.Width))
	if errMsg != "" {
		return panelRow{}, errMsg, ""
	}
	height, errMsg := parseDimension(rowLabel, "height", getCell(row, mapping.Height))
	if errMsg != "" {
		return panelRow{}, errMsg, ""
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		q, err := strconv.Atoi(qtyStr)
		if err != nil {
			return panelRow{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
		qty = q
	}

	if width <= 0 || height <= 0 || qty <= 0 {
		return panelRow{}, fmt.Sprintf("%s: Width, height, and quantity must be positive", rowLabel), ""
	}

	pr := panelRow{code: code, width: width, height: height, quantity: qty}

	var warning string
	if sizeStr := getCell(row, mapping.Sheet); sizeStr != "" {
		if size, ok := ParseSheetSize(sizeStr); ok {
			pr.size = size
			pr.hasSize = true
		} else {
			warning = fmt.Sprintf("%s: Unknown sheet size '%s', using default", rowLabel, sizeStr)
		}
	}

	return pr, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports panels from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string, defaultSize model.SheetSize) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", warnings, defaultSize)
}

// ImportCSVFromReader imports panels from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune, defaultSize model.SheetSize) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil, defaultSize)
}

// ImportExcel imports panels from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string, defaultSize model.SheetSize) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil, defaultSize)
}

// ImportFile dispatches on the file extension: .xlsx goes to ImportExcel,
// everything else is read as CSV.
func ImportFile(path string, defaultSize model.SheetSize) ImportResult {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return ImportExcel(path, defaultSize)
	}
	return ImportCSV(path, defaultSize)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, parses each row and groups the panels
// by laminate code in order of first appearance.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, defaultSize model.SheetSize) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Code == -1 {
			missing = append(missing, "Code")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// First column after the code is not numeric: an unrecognized header
		if _, err := strconv.Atoi(strings.TrimSpace(rows[0][1])); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	type group struct {
		size  model.SheetSize
		lines []string
	}
	var order []string
	groups := make(map[string]*group)

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		pr, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		g, ok := groups[pr.code]
		if !ok {
			g = &group{size: defaultSize}
			if pr.hasSize {
				g.size = pr.size
			}
			groups[pr.code] = g
			order = append(order, pr.code)
		} else if pr.hasSize && pr.size != g.size {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: Sheet size for %s already set to %s, ignoring '%s'", rowLabel, pr.code, g.size.Label, pr.size.Label))
		}
		g.lines = append(g.lines, fmt.Sprintf("%dx%dx%d", pr.width, pr.height, pr.quantity))
	}

	for _, code := range order {
		g := groups[code]
		result.Requests = append(result.Requests, model.MaterialRequest{
			Material:  g.size.Material(code),
			PanelText: strings.Join(g.lines, "\n"),
		})
	}

	return result
}

// ReadPanelText reads a plain-text panel list, one panel group per line.
func ReadPanelText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read panel list: %w", err)
	}
	return string(data), nil
}

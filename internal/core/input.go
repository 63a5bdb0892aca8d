package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// PartNumberColumn 输入 CSV 必须包含的列名
const PartNumberColumn = "Part Number"

// ReadPartNumbers 读取输入 CSV 中 "Part Number" 列，保持顺序，不去重
func ReadPartNumbers(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &InputFormatError{Path: path, Err: err}
	}
	defer file.Close()

	parts, err := parsePartNumbers(file)
	if err != nil {
		return nil, &InputFormatError{Path: path, Err: err}
	}
	return parts, nil
}

func parsePartNumbers(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSV file must contain a '%s' column", PartNumberColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	col := -1
	for i, h := range headers {
		// Excel 导出的 CSV 常带 BOM
		if strings.TrimPrefix(h, "\ufeff") == PartNumberColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("CSV file must contain a '%s' column", PartNumberColumn)
	}

	var parts []string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取记录失败: %w", err)
		}
		if col >= len(row) {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, row[col])
	}
	return parts, nil
}

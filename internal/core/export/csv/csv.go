package csv

import (
	"encoding/csv"
	"fmt"
	"os"

	"PartHunter/internal/core/export"
	"PartHunter/internal/models"
)

type CSVExporter struct {
	// WithBOM 写入 UTF-8 BOM，方便 Excel 直接打开
	WithBOM bool
}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Export(batch models.ResultBatch, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer file.Close()

	if e.WithBOM {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("写入 BOM 失败: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(export.Header); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}
	if err := writer.WriteAll(export.Rows(batch)); err != nil {
		return fmt.Errorf("写入数据失败: %w", err)
	}

	return file.Close()
}

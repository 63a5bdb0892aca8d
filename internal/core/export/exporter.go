package export

import (
	"PartHunter/internal/models"
)

// Header 输出文件的固定列
var Header = []string{
	"Part Number", "Manufacturer", "Description", "Category",
	"Detailed Description", "Primary Photo", "Unit Price",
}

// Exporter 导出器接口
type Exporter interface {
	// Export 导出记录到指定文件
	Export(batch models.ResultBatch, outputPath string) error
}

// Row 按 Header 的顺序展开一条记录，缺失的可选字段为空字符串
func Row(rec *models.ProductRecord) []string {
	return []string{
		rec.PartNumber,
		rec.Manufacturer,
		rec.Description,
		rec.Category,
		rec.DetailedDescription,
		rec.PrimaryPhoto,
		rec.UnitPrice,
	}
}

func Rows(batch models.ResultBatch) [][]string {
	rows := make([][]string, 0, len(batch))
	for _, rec := range batch {
		if rec == nil {
			continue
		}
		rows = append(rows, Row(rec))
	}
	return rows
}

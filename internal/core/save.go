package core

import (
	"fmt"

	exporter "PartHunter/internal/core/export"
	csv "PartHunter/internal/core/export/csv"
	json "PartHunter/internal/core/export/json"
	"PartHunter/internal/models"
	"PartHunter/pkg/logger"
)

// NewExporter 按格式选择导出器
func NewExporter(format string) (exporter.Exporter, error) {
	switch format {
	case "", "csv":
		return csv.NewCSVExporter(), nil
	case "json":
		return json.NewJSONExporter(), nil
	default:
		return nil, &UsageError{Msg: fmt.Sprintf("unsupported output format %q (csv, json)", format)}
	}
}

// Save 把结果写入文件；空结果不写文件。写入失败返回 OutputWriteError。
func (a *App) Save(batch models.ResultBatch, format, outputPath string) (bool, error) {
	if len(batch) == 0 {
		logger.Debug("没有结果，跳过写文件")
		return false, nil
	}

	exp, err := NewExporter(format)
	if err != nil {
		return false, err
	}

	logger.Info("开始导出: 格式=%s, 输出=%s", format, outputPath)
	if err := exp.Export(batch, outputPath); err != nil {
		return false, &OutputWriteError{Path: outputPath, Err: err}
	}
	a.metrics.OutputRowsTotal.Add(float64(len(batch)))
	logger.Info("导出成功: %d 个产品 -> %s", len(batch), outputPath)
	return true, nil
}

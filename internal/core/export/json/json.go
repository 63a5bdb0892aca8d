package json

import (
	"encoding/json"
	"fmt"
	"os"

	"PartHunter/internal/models"
)

type JSONExporter struct{}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Export(batch models.ResultBatch, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false) // 图片 URL 里的 & 保持原样

	products := batch
	if products == nil {
		products = models.ResultBatch{}
	}
	data := map[string]interface{}{
		"total":    len(products),
		"products": products,
	}

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("写入 JSON 失败: %w", err)
	}

	return file.Close()
}

package digikey

import (
	"strconv"

	"PartHunter/internal/models"
)

// Normalize 把原始产品映射成统一记录。纯函数：可选字段缺失时为空字符串，
// 必填字段原样透传（API 负责保证它们存在）。
func Normalize(p *Product) *models.ProductRecord {
	if p == nil {
		return nil
	}

	rec := &models.ProductRecord{
		PartNumber:  p.DigiKeyPartNumber,
		Description: p.ProductDescription,
	}
	if p.Manufacturer != nil {
		rec.Manufacturer = p.Manufacturer.Value
	}

	if p.Category != nil {
		rec.Category = p.Category.Value
		rec.Present |= models.FieldCategory
	}
	if p.DetailedDescription != nil {
		rec.DetailedDescription = *p.DetailedDescription
		rec.Present |= models.FieldDetailedDescription
	}
	if p.PrimaryPhoto != nil {
		rec.PrimaryPhoto = *p.PrimaryPhoto
		rec.Present |= models.FieldPrimaryPhoto
	}
	if p.UnitPrice != nil {
		rec.UnitPrice = strconv.FormatFloat(*p.UnitPrice, 'f', -1, 64)
		rec.Present |= models.FieldUnitPrice
	}
	return rec
}

// NormalizeAll 处理关键词搜索/批量查询返回的产品列表，跳过 nil
func NormalizeAll(products []*Product) []*models.ProductRecord {
	records := make([]*models.ProductRecord, 0, len(products))
	for _, p := range products {
		if rec := Normalize(p); rec != nil {
			records = append(records, rec)
		}
	}
	return records
}

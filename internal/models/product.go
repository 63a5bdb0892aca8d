package models

// OptionalField 标记原始数据里出现过的可选字段
type OptionalField uint8

const (
	FieldCategory OptionalField = 1 << iota
	FieldDetailedDescription
	FieldPrimaryPhoto
	FieldUnitPrice
)

// ProductRecord 统一的元器件记录，独立于具体分销商 API。
// 可选字段缺失时为空字符串，Present 记录原始对象中是否带了该字段。
type ProductRecord struct {
	PartNumber          string `json:"part_number"`
	Manufacturer        string `json:"manufacturer"`
	Description         string `json:"description"`
	Category            string `json:"category"`
	DetailedDescription string `json:"detailed_description"`
	PrimaryPhoto        string `json:"primary_photo"`
	UnitPrice           string `json:"unit_price"`

	Present OptionalField `json:"-"`
}

func (r *ProductRecord) Has(f OptionalField) bool {
	return r.Present&f != 0
}

// ResultBatch 一次命令执行得到的全部记录，顺序与输入顺序一致
type ResultBatch []*ProductRecord

package platform

import (
	"context"

	"PartHunter/internal/models"
)

// MaxBatchSize 批量查询单次请求最多携带的料号数
const MaxBatchSize = 50

// Distributor 分销商接口，所有平台（DigiKey/Mouser/...）都需实现。
// 返回的记录已经归一化为 models.ProductRecord。
type Distributor interface {
	Name() string

	// KeywordSearch 关键词搜索，最多返回 limit 条
	KeywordSearch(ctx context.Context, keyword string, limit int) ([]*models.ProductRecord, error)

	// ProductDetails 按分销商料号精确查询单个产品
	ProductDetails(ctx context.Context, partNumber string) (*models.ProductRecord, error)

	// BatchProductDetails 一次查询至多 MaxBatchSize 个料号
	BatchProductDetails(ctx context.Context, partNumbers []string) ([]*models.ProductRecord, error)

	GetConfig() Config
}

type Config interface {
	Validate() error
}

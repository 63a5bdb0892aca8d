package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"PartHunter/internal/models"
	"PartHunter/internal/platform"
	"PartHunter/pkg/logger"
)

const defaultMemoSize = 128

type Options struct {
	Workers     int  // 批量模式的并发数，1 表示串行
	MemoSize    int  // 单次执行内的料号查询记忆，<=0 使用默认值
	UseBatchAPI bool // 批量模式走 batchProductDetails，每次最多 50 个
}

// App 查询调度：按模式调用分销商接口，单次查询失败只记录日志，不中断整个批次
type App struct {
	dist    platform.Distributor
	opts    Options
	metrics *Metrics
	memo    *lru.Cache[string, *models.ProductRecord]
}

func NewApp(dist platform.Distributor, opts Options, metrics *Metrics) (*App, error) {
	if dist == nil {
		return nil, fmt.Errorf("distributor 不能为空")
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MemoSize <= 0 {
		opts.MemoSize = defaultMemoSize
	}
	memo, err := lru.New[string, *models.ProductRecord](opts.MemoSize)
	if err != nil {
		return nil, fmt.Errorf("创建查询缓存失败: %w", err)
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &App{dist: dist, opts: opts, metrics: metrics, memo: memo}, nil
}

func (a *App) Metrics() *Metrics { return a.metrics }

// Run 执行一次查询，返回的记录顺序与输入顺序一致
func (a *App) Run(ctx context.Context, req SearchRequest) (models.ResultBatch, error) {
	logger.Info("开始查询: 平台=%s, 模式=%s", a.dist.Name(), req.Mode)

	var batch models.ResultBatch
	switch req.Mode {
	case ModeKeyword:
		batch = a.SearchByKeyword(ctx, req.Keyword, req.Limit)
	case ModePartNumber:
		if rec := a.SearchByPartNumber(ctx, req.PartNumber); rec != nil {
			batch = models.ResultBatch{rec}
		}
	case ModeBatch:
		parts, err := ReadPartNumbers(req.InputCSV)
		if err != nil {
			return nil, err
		}
		logger.Info("从 %s 读取到 %d 个料号", req.InputCSV, len(parts))
		if a.opts.UseBatchAPI {
			batch = a.SearchBatchAPI(ctx, parts)
		} else {
			batch = a.SearchBatch(ctx, parts)
		}
	default:
		return nil, &UsageError{Msg: fmt.Sprintf("unknown search mode %d", req.Mode)}
	}

	a.metrics.ProductsTotal.Add(float64(len(batch)))
	logger.Info("查询完成，共 %d 个产品", len(batch))
	return batch, nil
}

// SearchByKeyword 关键词搜索，失败时记录日志并返回 nil
func (a *App) SearchByKeyword(ctx context.Context, keyword string, limit int) models.ResultBatch {
	start := time.Now()
	recs, err := a.dist.KeywordSearch(ctx, keyword, limit)
	a.metrics.observe("keyword", start, err)
	if err != nil {
		logger.Error("Error searching for parts: %v", &QueryError{Op: "keyword search", Target: keyword, Err: err})
		return nil
	}
	return recs
}

// SearchByPartNumber 料号精确查询，失败时记录日志并返回 nil
func (a *App) SearchByPartNumber(ctx context.Context, partNumber string) *models.ProductRecord {
	partNumber = strings.TrimSpace(partNumber)
	if partNumber == "" {
		logger.Warn("跳过空料号")
		return nil
	}
	if rec, ok := a.memo.Get(partNumber); ok {
		a.metrics.MemoHitsTotal.Inc()
		logger.Debug("料号 %s 命中本次查询记忆", partNumber)
		return rec
	}

	start := time.Now()
	rec, err := a.dist.ProductDetails(ctx, partNumber)
	a.metrics.observe("product_details", start, err)
	if err != nil {
		logger.Error("Error searching for part: %v", &QueryError{Op: "part number lookup", Target: partNumber, Err: err})
		return nil
	}
	if rec != nil {
		a.memo.Add(partNumber, rec)
	}
	return rec
}

// SearchBatch 每个料号查询一次。Workers>1 时并发，但结果仍按输入顺序排列；
// 失败的料号直接跳过。
func (a *App) SearchBatch(ctx context.Context, partNumbers []string) models.ResultBatch {
	results := make([]*models.ProductRecord, len(partNumbers))

	if a.opts.Workers <= 1 {
		for i, pn := range partNumbers {
			if ctx.Err() != nil {
				logger.Warn("查询被取消，已完成 %d/%d", i, len(partNumbers))
				break
			}
			results[i] = a.SearchByPartNumber(ctx, pn)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.opts.Workers)
		for i, pn := range partNumbers {
			i, pn := i, pn
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				results[i] = a.SearchByPartNumber(gctx, pn)
				return nil
			})
		}
		_ = g.Wait()
	}

	batch := make(models.ResultBatch, 0, len(results))
	for i, rec := range results {
		if rec == nil {
			logger.Debug("[%d/%d] %s 无结果", i+1, len(partNumbers), partNumbers[i])
			continue
		}
		batch = append(batch, rec)
	}
	return batch
}

// SearchBatchAPI 每 50 个料号发一次批量请求，某一批失败不影响其他批
func (a *App) SearchBatchAPI(ctx context.Context, partNumbers []string) models.ResultBatch {
	var batch models.ResultBatch
	for _, chunk := range chunk(partNumbers, platform.MaxBatchSize) {
		start := time.Now()
		recs, err := a.dist.BatchProductDetails(ctx, chunk)
		a.metrics.observe("batch_product_details", start, err)
		if err != nil {
			logger.Error("Error searching for parts: %v",
				&QueryError{Op: "batch lookup", Target: strings.Join(chunk, ","), Err: err})
			continue
		}
		batch = append(batch, recs...)
	}
	return batch
}

func chunk(items []string, size int) [][]string {
	var out [][]string
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if len(out) == 0 || len(out[len(out)-1]) == size {
			out = append(out, make([]string, 0, size))
		}
		out[len(out)-1] = append(out[len(out)-1], it)
	}
	return out
}

package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkbitable "github.com/larksuite/oapi-sdk-go/v3/service/bitable/v1"

	"PartHunter/pkg/logger"
)

const (
	defaultBaseURL  = "https://open.feishu.cn"
	tenantTokenPath = "/open-apis/auth/v3/tenant_access_token/internal"
	tableName       = "Products"
	recordBatchSize = 500
)

var log = logger.WithPrefix("feishu")

// Client 把查询结果表格上传为飞书多维表格
type Client struct {
	AppID      string
	AppSecret  string
	FileName   string // 多维表格的名字
	baseURL    string
	httpClient *http.Client
	larkClient *lark.Client
}

type Option func(*Client)

// WithBaseURL 替换开放平台地址，token 请求和多维表格接口都走这个地址
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func NewClient(appID, appSecret, fileName string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		AppID:      appID,
		AppSecret:  appSecret,
		FileName:   fileName,
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.larkClient = lark.NewClient(appID, appSecret,
		lark.WithOpenBaseUrl(c.baseURL),
		lark.WithHttpClient(httpClient))
	return c
}

// getTenantAccessToken 获取 Tenant Access Token
func (c *Client) getTenantAccessToken(ctx context.Context) (string, error) {
	jsonData, err := json.Marshal(map[string]string{
		"app_id":     c.AppID,
		"app_secret": c.AppSecret,
	})
	if err != nil {
		return "", fmt.Errorf("marshal data error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tenantTokenPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request error: %w", err)
	}
	defer resp.Body.Close()

	var result tenantTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response error: %w", err)
	}
	if result.Code != 0 {
		return "", fmt.Errorf("API error: code=%d, msg=%s", result.Code, result.Msg)
	}
	return result.TenantAccessToken, nil
}

// createBitable 创建多维表格，返回 app token 和访问链接
func (c *Client) createBitable(ctx context.Context, tenantAccessToken string) (string, string, error) {
	req := larkbitable.NewCreateAppReqBuilder().
		ReqApp(larkbitable.NewReqAppBuilder().
			Name(c.FileName).
			FolderToken("").
			Build()).
		Build()

	resp, err := c.larkClient.Bitable.V1.App.Create(ctx, req, larkcore.WithTenantAccessToken(tenantAccessToken))
	if err != nil {
		return "", "", fmt.Errorf("create bitable error: %w", err)
	}
	if !resp.Success() {
		return "", "", fmt.Errorf("create bitable failed: logId=%s, error=%s",
			resp.RequestId(), larkcore.Prettify(resp.CodeError))
	}
	if resp.Data == nil || resp.Data.App == nil || resp.Data.App.AppToken == nil {
		return "", "", fmt.Errorf("create bitable: empty app token")
	}

	url := ""
	if resp.Data.App.Url != nil {
		url = *resp.Data.App.Url
	}
	return *resp.Data.App.AppToken, url, nil
}

// createTable 在多维表格中创建数据表，所有列都是文本类型
func (c *Client) createTable(ctx context.Context, appToken string, headers []string, tenantAccessToken string) (string, error) {
	fields := make([]*larkbitable.AppTableCreateHeader, len(headers))
	for i, header := range headers {
		fields[i] = larkbitable.NewAppTableCreateHeaderBuilder().
			FieldName(header).
			Type(1).
			Build()
	}

	req := larkbitable.NewCreateAppTableReqBuilder().
		AppToken(appToken).
		Body(larkbitable.NewCreateAppTableReqBodyBuilder().
			Table(larkbitable.NewReqTableBuilder().
				Name(tableName).
				DefaultViewName("Grid").
				Fields(fields).
				Build()).
			Build()).
		Build()

	resp, err := c.larkClient.Bitable.V1.AppTable.Create(ctx, req, larkcore.WithTenantAccessToken(tenantAccessToken))
	if err != nil {
		return "", fmt.Errorf("create table error: %w", err)
	}
	if !resp.Success() {
		return "", fmt.Errorf("create table failed: logId=%s, error=%s",
			resp.RequestId(), larkcore.Prettify(resp.CodeError))
	}
	if resp.Data == nil || resp.Data.TableId == nil {
		return "", fmt.Errorf("tableId is nil")
	}
	return *resp.Data.TableId, nil
}

// addRecords 分批写入记录
func (c *Client) addRecords(ctx context.Context, appToken, tableID string, records []*larkbitable.AppTableRecord, tenantAccessToken string) error {
	for i := 0; i < len(records); i += recordBatchSize {
		end := i + recordBatchSize
		if end > len(records) {
			end = len(records)
		}

		req := larkbitable.NewBatchCreateAppTableRecordReqBuilder().
			AppToken(appToken).
			TableId(tableID).
			Body(larkbitable.NewBatchCreateAppTableRecordReqBodyBuilder().
				Records(records[i:end]).
				Build()).
			Build()

		resp, err := c.larkClient.Bitable.V1.AppTableRecord.BatchCreate(ctx, req, larkcore.WithTenantAccessToken(tenantAccessToken))
		if err != nil {
			return fmt.Errorf("add records error: %w", err)
		}
		if !resp.Success() {
			return fmt.Errorf("add records failed: logId=%s, error=%s",
				resp.RequestId(), larkcore.Prettify(resp.CodeError))
		}
		log.Debug("已写入 %d/%d 条记录", end, len(records))
	}
	return nil
}

// toBitableRecords 把表格行转换为飞书记录，列名作为字段名
func toBitableRecords(headers []string, rows [][]string) []*larkbitable.AppTableRecord {
	records := make([]*larkbitable.AppTableRecord, len(rows))
	for i, row := range rows {
		fields := make(map[string]interface{}, len(headers))
		for j, header := range headers {
			if j < len(row) {
				fields[header] = row[j]
			}
		}
		records[i] = larkbitable.NewAppTableRecordBuilder().
			Fields(fields).
			Build()
	}
	return records
}

// UploadTable 新建一个多维表格并写入全部行，返回多维表格链接
func (c *Client) UploadTable(ctx context.Context, headers []string, rows [][]string) (string, error) {
	if c.AppID == "" || c.AppSecret == "" {
		return "", fmt.Errorf("feishu 配置不完整，请在配置文件中设置 feishu.app_id 和 feishu.app_secret")
	}
	log.Info("上传 %d 列，%d 行数据", len(headers), len(rows))

	tenantAccessToken, err := c.getTenantAccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("获取 tenant access token 失败: %w", err)
	}

	appToken, url, err := c.createBitable(ctx, tenantAccessToken)
	if err != nil {
		return "", fmt.Errorf("创建多维表格失败: %w", err)
	}

	tableID, err := c.createTable(ctx, appToken, headers, tenantAccessToken)
	if err != nil {
		return "", fmt.Errorf("创建数据表失败: %w", err)
	}

	if err := c.addRecords(ctx, appToken, tableID, toBitableRecords(headers, rows), tenantAccessToken); err != nil {
		return "", fmt.Errorf("添加记录失败: %w", err)
	}
	return url, nil
}

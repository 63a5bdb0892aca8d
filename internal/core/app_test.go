package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"PartHunter/internal/models"
	"PartHunter/internal/platform"
)

// fakeDistributor 按料号返回预置记录，fail 中的料号返回错误
type fakeDistributor struct {
	mu       sync.Mutex
	products map[string]*models.ProductRecord
	keyword  []*models.ProductRecord
	fail     map[string]bool
	calls    []string
	batches  [][]string
	delay    time.Duration
}

type fakeConfig struct{}

func (fakeConfig) Validate() error { return nil }

func (f *fakeDistributor) Name() string                { return "fake" }
func (f *fakeDistributor) GetConfig() platform.Config { return fakeConfig{} }

func (f *fakeDistributor) KeywordSearch(ctx context.Context, keyword string, limit int) ([]*models.ProductRecord, error) {
	f.record("keyword:" + keyword)
	if f.fail[keyword] {
		return nil, errors.New("simulated API error")
	}
	if limit < len(f.keyword) {
		return f.keyword[:limit], nil
	}
	return f.keyword, nil
}

func (f *fakeDistributor) ProductDetails(ctx context.Context, pn string) (*models.ProductRecord, error) {
	f.record(pn)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail[pn] {
		return nil, errors.New("simulated API error")
	}
	rec, ok := f.products[pn]
	if !ok {
		return nil, fmt.Errorf("%s not found", pn)
	}
	return rec, nil
}

func (f *fakeDistributor) BatchProductDetails(ctx context.Context, pns []string) ([]*models.ProductRecord, error) {
	f.mu.Lock()
	f.batches = append(f.batches, append([]string(nil), pns...))
	f.mu.Unlock()
	var out []*models.ProductRecord
	for _, pn := range pns {
		if f.fail[pn] {
			return nil, errors.New("simulated API error")
		}
		if rec, ok := f.products[pn]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeDistributor) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func rec(pn, mfr, desc string) *models.ProductRecord {
	return &models.ProductRecord{PartNumber: pn, Manufacturer: mfr, Description: desc}
}

func newTestApp(t *testing.T, dist platform.Distributor, opts Options) *App {
	t.Helper()
	app, err := NewApp(dist, opts, nil)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	return app
}

func writeInputCSV(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parts.csv")
	content := "Part Number,Qty\n"
	for _, p := range parts {
		content += p + ",1\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return rows
}

func TestRunPartNumberScenario(t *testing.T) {
	dist := &fakeDistributor{products: map[string]*models.ProductRecord{
		"296-6501-1-ND": rec("296-6501-1-ND", "Texas Instruments", "RES 10K OHM 1% 1/8W 0805"),
	}}
	app := newTestApp(t, dist, Options{})

	req, err := NewSearchRequest("", "296-6501-1-ND", "", 10)
	if err != nil {
		t.Fatalf("NewSearchRequest() error = %v", err)
	}
	batch, err := app.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var out bytes.Buffer
	NewPrinter(&out, false).Print(batch)
	if n := strings.Count(out.String(), "Part Number:"); n != 1 {
		t.Errorf("got %d console blocks, want 1", n)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if _, err := app.Save(batch, "csv", path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	if rows[1][1] != "Texas Instruments" || !strings.HasPrefix(rows[1][2], "RES 10K OHM") {
		t.Errorf("unexpected data row: %v", rows[1])
	}
}

func TestRunKeywordScenario(t *testing.T) {
	var products []*models.ProductRecord
	for i := 0; i < 25; i++ {
		products = append(products, rec(fmt.Sprintf("541-%d-ND", i), "Vishay Dale", "RES 10K"))
	}
	dist := &fakeDistributor{keyword: products}
	app := newTestApp(t, dist, Options{})

	batch, err := app.Run(context.Background(), SearchRequest{Mode: ModeKeyword, Keyword: "CRCW080510K0FKEA", Limit: 10})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var out bytes.Buffer
	NewPrinter(&out, false).Print(batch)
	if n := strings.Count(out.String(), "Part Number:"); n != 10 {
		t.Errorf("got %d console blocks, want 10", n)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if _, err := app.Save(batch, "csv", path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if rows := readCSV(t, path); len(rows) != 11 {
		t.Errorf("got %d rows, want 11", len(rows))
	}
}

func TestRunBatchSkipsFailedLookup(t *testing.T) {
	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			dist := &fakeDistributor{
				products: map[string]*models.ProductRecord{
					"A": rec("A", "M1", "D1"),
					"B": rec("B", "M2", "D2"),
					"C": rec("C", "M3", "D3"),
				},
				fail: map[string]bool{"B": true},
			}
			app := newTestApp(t, dist, Options{Workers: workers})

			batch, err := app.Run(context.Background(), SearchRequest{Mode: ModeBatch, InputCSV: writeInputCSV(t, "A", "B", "C")})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			var out bytes.Buffer
			NewPrinter(&out, false).Print(batch)
			if n := strings.Count(out.String(), "Part Number:"); n != 2 {
				t.Errorf("got %d console blocks, want 2", n)
			}
			if len(batch) != 2 || batch[0].PartNumber != "A" || batch[1].PartNumber != "C" {
				t.Errorf("unexpected batch: %+v", batch)
			}

			path := filepath.Join(t.TempDir(), "out.csv")
			if _, err := app.Save(batch, "csv", path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if rows := readCSV(t, path); len(rows) != 3 {
				t.Errorf("got %d rows, want header + 2", len(rows))
			}

			failed := testutil.ToFloat64(app.Metrics().QueriesTotal.WithLabelValues("product_details", "error"))
			if failed != 1 {
				t.Errorf("failed queries = %v, want 1", failed)
			}
		})
	}
}

func TestSearchBatchKeepsInputOrderWithWorkers(t *testing.T) {
	products := map[string]*models.ProductRecord{}
	var parts []string
	for i := 0; i < 20; i++ {
		pn := fmt.Sprintf("P%02d", i)
		products[pn] = rec(pn, "M", "D")
		parts = append(parts, pn)
	}
	dist := &fakeDistributor{products: products, delay: time.Millisecond}
	app := newTestApp(t, dist, Options{Workers: 5})

	batch := app.SearchBatch(context.Background(), parts)
	if len(batch) != len(parts) {
		t.Fatalf("got %d records, want %d", len(batch), len(parts))
	}
	for i, r := range batch {
		if r.PartNumber != parts[i] {
			t.Fatalf("batch[%d] = %s, want %s", i, r.PartNumber, parts[i])
		}
	}
}

func TestSearchBatchDuplicatesUseMemo(t *testing.T) {
	dist := &fakeDistributor{products: map[string]*models.ProductRecord{"A": rec("A", "M", "D")}}
	app := newTestApp(t, dist, Options{})

	batch := app.SearchBatch(context.Background(), []string{"A", "A", "", "A"})
	if len(batch) != 3 {
		t.Fatalf("duplicates must be preserved, got %d records", len(batch))
	}
	if len(dist.calls) != 1 {
		t.Errorf("expected one API call, got %v", dist.calls)
	}
	if hits := testutil.ToFloat64(app.Metrics().MemoHitsTotal); hits != 2 {
		t.Errorf("memo hits = %v, want 2", hits)
	}
}

func TestSearchBatchAPIChunks(t *testing.T) {
	products := map[string]*models.ProductRecord{}
	var parts []string
	for i := 0; i < 120; i++ {
		pn := fmt.Sprintf("P%03d", i)
		products[pn] = rec(pn, "M", "D")
		parts = append(parts, pn)
	}
	dist := &fakeDistributor{products: products, fail: map[string]bool{"P060": true}}
	app := newTestApp(t, dist, Options{UseBatchAPI: true})

	batch := app.SearchBatchAPI(context.Background(), parts)
	if len(dist.batches) != 3 {
		t.Fatalf("got %d batch calls, want 3", len(dist.batches))
	}
	for i, want := range []int{50, 50, 20} {
		if len(dist.batches[i]) != want {
			t.Errorf("batch %d carries %d part numbers, want %d", i, len(dist.batches[i]), want)
		}
	}
	// 第二批失败被跳过
	if len(batch) != 70 {
		t.Errorf("got %d records, want 70", len(batch))
	}
}

func TestKeywordFailureReturnsEmpty(t *testing.T) {
	dist := &fakeDistributor{fail: map[string]bool{"boom": true}}
	app := newTestApp(t, dist, Options{})

	batch, err := app.Run(context.Background(), SearchRequest{Mode: ModeKeyword, Keyword: "boom", Limit: 10})
	if err != nil {
		t.Fatalf("query failure must not propagate, got %v", err)
	}
	if len(batch) != 0 {
		t.Errorf("expected empty batch, got %d", len(batch))
	}

	var out bytes.Buffer
	NewPrinter(&out, false).Print(batch)
	if strings.TrimSpace(out.String()) != "No results found." {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunBatchMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("MPN,Qty\nX,1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	dist := &fakeDistributor{}
	app := newTestApp(t, dist, Options{})

	_, err := app.Run(context.Background(), SearchRequest{Mode: ModeBatch, InputCSV: path})
	var ife *InputFormatError
	if !errors.As(err, &ife) {
		t.Fatalf("expected InputFormatError, got %v", err)
	}
	if len(dist.calls) != 0 {
		t.Errorf("no API calls expected, got %v", dist.calls)
	}
}

func TestChunkSkipsBlank(t *testing.T) {
	got := chunk([]string{"a", " ", "b", "c"}, 2)
	if len(got) != 2 || len(got[0]) != 2 || got[1][0] != "c" {
		t.Errorf("chunk() = %v", got)
	}
}

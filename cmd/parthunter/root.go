package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"PartHunter/config"
	"PartHunter/internal/core"
	"PartHunter/internal/core/export"
	"PartHunter/internal/models"
	_ "PartHunter/internal/platform/digikey"
	"PartHunter/pkg/logger"
	"PartHunter/pkg/upload/feishu"
)

var (
	// 构建时通过 -ldflags 注入
	Version   = "dev"
	CommitID  = "unknown"
	BuildDate = "unknown"
)

const distributorName = "digikey"

// 测试里替换成假的分销商
var newDistributor = core.NewDistributor

type rootOptions struct {
	keyword     string
	partNumber  string
	inputCSV    string
	count       int
	saveFile    bool
	output      string
	format      string
	cfgFile     string
	logLevel    string
	noColor     bool
	workers     int
	batchAPI    bool
	feishu      bool
	metricsFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "parthunter",
		Short:         "Search for electronic components on DigiKey",
		Long:          `parthunter queries the DigiKey product information API by keyword, by part number, or for every part number listed in a CSV file, and prints or exports the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &core.UsageError{Msg: fmt.Sprintf("unexpected arguments: %v", args)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), opts, cmd.Flags().Changed("workers"))
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &core.UsageError{Msg: err.Error()}
	})

	f := cmd.Flags()
	f.StringVarP(&opts.keyword, "keyword", "k", "", "search by keyword")
	f.StringVarP(&opts.partNumber, "part-number", "p", "", "search by part number")
	f.StringVarP(&opts.inputCSV, "input-csv", "i", "", "input CSV file containing a 'Part Number' column")
	f.IntVarP(&opts.count, "count", "c", 10, "number of results to return for keyword search")
	f.BoolVar(&opts.saveFile, "csv", false, "save results to a file")
	f.StringVarP(&opts.output, "output", "o", "search_results.csv", "output filename")
	f.StringVar(&opts.format, "format", "", "output file format: csv, json (default from config)")
	f.StringVar(&opts.cfgFile, "config", "", "config file path")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored logs")
	f.IntVar(&opts.workers, "workers", 1, "concurrent lookups in CSV batch mode")
	f.BoolVar(&opts.batchAPI, "batch-api", false, "use the batch product details endpoint (50 part numbers per request)")
	f.BoolVar(&opts.feishu, "feishu", false, "upload results to a Feishu Bitable")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func runSearch(ctx context.Context, out io.Writer, opts *rootOptions, workersSet bool) error {
	// 参数校验在读配置、发请求之前完成
	req, err := core.NewSearchRequest(opts.keyword, opts.partNumber, opts.inputCSV, opts.count)
	if err != nil {
		return err
	}
	if opts.workers <= 0 {
		return &core.UsageError{Msg: "--workers must be a positive number"}
	}
	if opts.format != "" {
		if _, err := core.NewExporter(opts.format); err != nil {
			return err
		}
	}

	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return err
	}
	configureLogger(cfg, opts)

	format := opts.format
	if format == "" {
		format = cfg.Report.Format
	}
	if _, err := core.NewExporter(format); err != nil {
		return err
	}

	dist, err := newDistributor(distributorName, &cfg.DigiKey)
	if err != nil {
		return err
	}

	appOpts := core.Options{
		Workers:     cfg.Batch.Workers,
		MemoSize:    cfg.Batch.MemoSize,
		UseBatchAPI: cfg.Batch.UseBatchAPI || opts.batchAPI,
	}
	if workersSet {
		appOpts.Workers = opts.workers
	}
	app, err := core.NewApp(dist, appOpts, core.NewMetrics())
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	batch, err := app.Run(ctx, req)
	if err != nil {
		return err
	}

	core.NewPrinter(out, cfg.Report.ShowEmptyOptional).Print(batch)

	if opts.saveFile {
		written, err := app.Save(batch, format, opts.output)
		if err != nil {
			return err
		}
		if written {
			fmt.Fprintf(out, "\nSearch results saved to %s\n", opts.output)
		}
	}

	if opts.feishu && len(batch) > 0 {
		if err := uploadFeishu(ctx, out, cfg, batch); err != nil {
			return err
		}
	}

	if opts.metricsFile != "" {
		if err := app.Metrics().WriteTextfile(opts.metricsFile); err != nil {
			return &core.OutputWriteError{Path: opts.metricsFile, Err: err}
		}
	}
	return nil
}

func configureLogger(cfg *config.AppConfig, opts *rootOptions) {
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger.SetLevel(level)
	logger.SetOutput(os.Stderr, cfg.Log.Color && !opts.noColor)
}

func uploadFeishu(ctx context.Context, out io.Writer, cfg *config.AppConfig, batch models.ResultBatch) error {
	var opts []feishu.Option
	if cfg.FeiShu.BaseURL != "" {
		opts = append(opts, feishu.WithBaseURL(cfg.FeiShu.BaseURL))
	}
	client := feishu.NewClient(cfg.FeiShu.AppID, cfg.FeiShu.AppSecret, cfg.FeiShu.FileName, nil, opts...)
	url, err := client.UploadTable(ctx, export.Header, export.Rows(batch))
	if err != nil {
		return fmt.Errorf("上传到飞书失败: %w", err)
	}
	fmt.Fprintf(out, "Uploaded %d products to Feishu: %s\n", len(batch), url)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "parthunter %s (commit %s, built %s)\n", Version, CommitID, BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "distributors: %v\n", core.List())
		},
	}
}

// execute 运行命令并返回进程退出码
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if code := core.ExitCode(err); code == 2 {
			fmt.Fprint(stderr, cmd.UsageString())
		}
	}
	return core.ExitCode(err)
}

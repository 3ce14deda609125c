package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dreschagin/smartfood/internal/application/port"
	"github.com/dreschagin/smartfood/internal/application/usecase"
	"github.com/dreschagin/smartfood/internal/domain/service"
	"github.com/dreschagin/smartfood/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/smartfood/internal/infrastructure/storage/localfs"
	s3storage "github.com/dreschagin/smartfood/internal/infrastructure/storage/s3"
	httpInterface "github.com/dreschagin/smartfood/internal/interfaces/http"
	"github.com/dreschagin/smartfood/internal/interfaces/view"
	"github.com/dreschagin/smartfood/pkg/config"
	"github.com/dreschagin/smartfood/pkg/logger"
)

// exportOptions собирает флаги команды
type exportOptions struct {
	outDir   string
	basePath string
	publish  bool
}

func main() {
	if err := command().Execute(); err != nil {
		os.Exit(1)
	}
}

func command() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "smartfood-export",
		Short: "Render the site into static files",
		Long: `Render index.html with the splash gate, one revealed page per menu tab
and the embedded assets. Files go to a local directory or, with --publish, to S3.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "dist", "Output directory for the exported site")
	cmd.Flags().StringVar(&opts.basePath, "base-path", "", "Path prefix of the published site (overrides BASE_PATH)")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Upload to the S3 bucket from S3_* settings instead of --out")

	return cmd
}

func run(ctx context.Context, opts *exportOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Getenv("LOG_LEVEL"))

	basePath := cfg.Site.BasePath
	if opts.basePath != "" {
		basePath = config.NormalizeBasePath(opts.basePath)
	}

	menuRepository, err := memory.NewMenuRepository()
	if err != nil {
		return fmt.Errorf("failed to load menu catalog: %w", err)
	}

	// Без сервера: ни live-сессии, ни отправки формы
	getHomePageUC := usecase.NewGetHomePageUseCase(
		menuRepository,
		service.NewMenuBrowser(menuRepository),
		nil,
		usecase.HomePageConfig{
			BasePath:    basePath,
			SplashDelay: cfg.Site.SplashDelay,
		},
		log,
	)

	var storage port.SiteStorage
	keyPrefix := ""
	if opts.publish {
		if cfg.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required with --publish")
		}
		storage, err = s3storage.NewSiteStorage(ctx, s3storage.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		keyPrefix = cfg.S3.KeyPrefix
	} else {
		storage, err = localfs.NewSiteStorage(opts.outDir)
		if err != nil {
			return fmt.Errorf("failed to prepare output directory: %w", err)
		}
	}

	assets, err := httpInterface.StaticAssets()
	if err != nil {
		return fmt.Errorf("failed to open embedded assets: %w", err)
	}

	exportUC := usecase.NewExportSiteUseCase(
		getHomePageUC,
		view.NewRenderer(),
		storage,
		usecase.ExportSiteConfig{
			KeyPrefix: keyPrefix,
			Assets:    assets,
		},
		log,
	)

	files, err := exportUC.Execute(ctx)
	if err != nil {
		return err
	}

	for _, file := range files {
		fmt.Fprintf(os.Stdout, "%s\t%d\t%s\n", file.Key, file.SizeBytes, file.URL)
	}
	return nil
}

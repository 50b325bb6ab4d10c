package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tomaskal/hermes/internal/config"
	"github.com/tomaskal/hermes/internal/logger"
	"github.com/tomaskal/hermes/internal/storage/archive"
	"go.uber.org/zap"
)

var (
	exportFrom string
	exportTo   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export chat history to the archive backend",
	Long: `Export snapshots chat accounting records from the configured store
into cold storage as a JSON-lines file. The time range is optional;
omitting it exports everything.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "start of range (RFC 3339, inclusive)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "end of range (RFC 3339, inclusive)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	from, to, err := exportRange()
	if err != nil {
		return err
	}

	store, closeStore, err := buildStore(cfg, log)
	if err != nil {
		return fmt.Errorf("opening chat store: %w", err)
	}
	defer closeStore()

	backend, err := buildArchive(cfg)
	if err != nil {
		return fmt.Errorf("creating archive backend: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	path, count, err := archive.NewExporter(store, backend).Export(ctx, from, to)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	log.Info("export complete",
		zap.String("path", path),
		zap.Int("records", count),
	)
	fmt.Printf("Exported %d records to %s\n", count, path)
	return nil
}

func exportRange() (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if exportFrom != "" {
		from, err = time.Parse(time.RFC3339, exportFrom)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if exportTo != "" {
		to, err = time.Parse(time.RFC3339, exportTo)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
	}
	return from, to, nil
}

func buildArchive(cfg *config.Config) (archive.Backend, error) {
	switch cfg.Archive.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		})
	default:
		return archive.NewLocalFS(cfg.Archive.Path)
	}
}

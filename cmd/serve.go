package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	appdist "github.com/nipunbatra/trim-convert/application/distribution"
	appvideo "github.com/nipunbatra/trim-convert/application/video"
	"github.com/nipunbatra/trim-convert/infrastructure/drive"
	"github.com/nipunbatra/trim-convert/infrastructure/ffmpeg"
	"github.com/nipunbatra/trim-convert/infrastructure/filesystem"
	"github.com/nipunbatra/trim-convert/web"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the browser demo",
	Long: `Start a local web server for trimming videos in the browser:
upload a video (or import one from Google Drive), pick cut points,
and download the trimmed clip and its audio.

Drive import and upload appear in the UI only when the OAuth
credentials file exists.

Environment variables are read from a .env file when present;
TRIM_CONVERT_ADDR overrides the listen address and
TRIM_CONVERT_DATA_DIR the data directory.

Example:
  trim-convert serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	// .env is optional; it exists so deployments can override the listen
	// address without editing config.yaml.
	godotenv.Load()

	addr := serveAddr
	if addr == "" {
		addr = os.Getenv("TRIM_CONVERT_ADDR")
	}
	if addr == "" {
		addr = cfg.Server.ListenAddr
	}

	if dir := os.Getenv("TRIM_CONVERT_DATA_DIR"); dir != "" {
		cfg.Paths.DataDirectory = dir
	}

	if err := os.MkdirAll(cfg.Paths.DataDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.Paths.OutputDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDirectory, "trim-convert.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	runner := &ffmpeg.ExecCommandRunner{Log: GetLogger()}
	clipper := appvideo.NewClipService(
		ffmpeg.NewProber(
			ffmpeg.WithFFprobePath(cfg.FFmpeg.FFprobePath),
			ffmpeg.WithProberCommandRunner(runner),
		),
		ffmpeg.NewTrimmer(
			ffmpeg.WithFFmpegPath(cfg.FFmpeg.FFmpegPath),
			ffmpeg.WithAudioBitrate(cfg.FFmpeg.AudioBitrate),
			ffmpeg.WithCommandRunner(runner),
		),
		ffmpeg.NewExtractor(
			ffmpeg.WithExtractorFFmpegPath(cfg.FFmpeg.FFmpegPath),
			ffmpeg.WithExtractorCommandRunner(runner),
		),
		filesystem.NewChecker(),
		cfg.FFmpeg.KeyframeTolerance,
		cfg.FFmpeg.AudioBitrate,
	)

	opts := []web.ServerOption{web.WithLogger(GetLogger())}

	// Drive routes are offered only when credentials are on disk.
	if _, err := os.Stat(cfg.Google.CredentialsFile); err == nil {
		client, err := drive.NewClientWithOAuth(cmd.Context(), cfg.Google.CredentialsFile, cfg.Google.TokenFile)
		if err != nil {
			return fmt.Errorf("failed to create Google Drive client: %w", err)
		}
		opts = append(opts,
			web.WithImporter(appdist.NewDownloadService(client, cfg.Paths.DataDirectory)),
			web.WithDistributor(appdist.NewUploadService(client, cfg.Google.DefaultFolderID, os.Stdout)),
		)
	} else {
		GetLogger().Infof("no %s found, Drive import/upload disabled", cfg.Google.CredentialsFile)
	}

	server, err := web.NewServer(db, clipper, web.Options{
		DataDir:     cfg.Paths.DataDirectory,
		OutputDir:   cfg.Paths.OutputDirectory,
		MaxUploadMB: cfg.Server.MaxUploadMB,
	}, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("Serving on %s\n", addr)
	return server.Start(addr)
}

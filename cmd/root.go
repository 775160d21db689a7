package cmd

import (
	"fmt"
	"os"

	"github.com/nipunbatra/trim-convert/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "trim-convert",
	Short: "Trim videos and extract audio with keyframe-aware cutting",
	Long: `trim-convert cuts a section out of a video and extracts its audio track:

  - Trim by start/end timestamps, stream-copying when the cut lands on
    a keyframe and re-encoding when it does not
  - Extract the trimmed clip's audio as AAC
  - Upload results to Google Drive with sharing, or import sources
    from Drive share links
  - Serve a browser demo for upload, trim, and download

Example:
  trim-convert trim -s 00:01:30 -e 00:05:00 -o highlight talk.mp4`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log the ffmpeg commands being run")
}

func initConfig() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// The config file is optional; defaults cover every command.
		cfg = config.Default()
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// GetLogger returns the CLI's logger
func GetLogger() *logrus.Logger {
	return log
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nipunbatra/trim-convert/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

Every setting has a working default, so pressing enter through the
prompts produces a usable configuration.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, "config/config.yaml")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to trim-convert setup!")
	fmt.Println()

	cfg := config.Default()

	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}

	if err := promptFFmpeg(prompter, cfg); err != nil {
		return err
	}

	if err := promptGoogle(prompter, cfg); err != nil {
		return err
	}

	if err := promptServer(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	data, err := prompter.Input("Where should downloaded and uploaded videos go?", cfg.Paths.DataDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if data != "" {
		cfg.Paths.DataDirectory = data
	}

	output, err := prompter.Input("Where should trimmed clips go?", cfg.Paths.OutputDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if output != "" {
		cfg.Paths.OutputDirectory = output
	}

	return nil
}

func promptFFmpeg(prompter Prompter, cfg *config.Config) error {
	ffmpegPath, err := prompter.Input("Path to the ffmpeg executable?", cfg.FFmpeg.FFmpegPath)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath != "" {
		cfg.FFmpeg.FFmpegPath = ffmpegPath
	}

	ffprobePath, err := prompter.Input("Path to the ffprobe executable?", cfg.FFmpeg.FFprobePath)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffprobePath != "" {
		cfg.FFmpeg.FFprobePath = ffprobePath
	}

	bitrate, err := prompter.Input("Audio bitrate for AAC extraction?", cfg.FFmpeg.AudioBitrate)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if bitrate != "" {
		cfg.FFmpeg.AudioBitrate = bitrate
	}

	tolerance, err := prompter.Input("Keyframe snap tolerance in seconds?", strconv.FormatFloat(cfg.FFmpeg.KeyframeTolerance, 'g', -1, 64))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if tolerance != "" {
		parsed, err := strconv.ParseFloat(tolerance, 64)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("tolerance must be a positive number")
		}
		cfg.FFmpeg.KeyframeTolerance = parsed
	}

	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	useDrive, err := prompter.Confirm("Configure Google Drive upload/download?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !useDrive {
		return nil
	}

	credentials, err := prompter.Input("Path to OAuth credentials file?", cfg.Google.CredentialsFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if credentials != "" {
		cfg.Google.CredentialsFile = credentials
	}

	folder, err := prompter.Input("Drive folder ID for uploads (empty for My Drive root)?", cfg.Google.DefaultFolderID)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Google.DefaultFolderID = folder

	return nil
}

func promptServer(prompter Prompter, cfg *config.Config) error {
	addr, err := prompter.Input("Listen address for the web demo?", cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if addr != "" {
		cfg.Server.ListenAddr = addr
	}

	return nil
}

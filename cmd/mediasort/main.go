package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/mediasort/cmd/mediasort/commands"
)

var (
	// Flags
	configFile string
	debug      bool
)

func main() {
	logLevel := zerolog.InfoLevel
	for _, arg := range os.Args[1:] {
		if arg == "--debug" || arg == "-d" {
			logLevel = zerolog.DebugLevel
		}
	}
	logger := zerolog.New(zerolog.NewConsoleWriter()).Level(logLevel).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	rootCmd := &cobra.Command{
		Use:   "mediasort",
		Short: "Organize photo and video files into YEAR-MONTH folders",
		Long: `mediasort inspects the capture date of photos and videos and copies them
into destination subfolders named YEAR-MONTH, skipping files that are
already in place and renaming on name collisions.`,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (.yaml or .hcl)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	opts := &commands.RootOpts{ConfigFile: &configFile}
	rootCmd.AddCommand(
		commands.NewOrganizeCmd(opts),
		commands.NewInspectCmd(opts),
		commands.NewVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

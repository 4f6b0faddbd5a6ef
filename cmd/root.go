package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"likedposts/app/config"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	cfgFile string
	cfg     *config.Config
)

// errReported means the command already told the user what went wrong and
// only the exit status is left to set.
var errReported = errors.New("already reported")

var errorColor = color.New(color.FgHiRed, color.Bold)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           `likedposts [command] [flags]`,
	Short:         "Browse and manage the posts you liked",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		configureLogging(cfg.LogFile, nil)
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}
	if !errors.Is(err, errReported) {
		errorColor.Fprintln(os.Stderr, "🚨 "+err.Error())
	}
	os.Exit(1)
}

// configureLogging sends the standard logger to the rotating log file, if
// one is configured, and to extra. With neither the log is dropped.
func configureLogging(logFile string, extra io.Writer) {
	var writers []io.Writer
	if logFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	if extra != nil {
		writers = append(writers, extra)
	}

	switch len(writers) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(writers[0])
	default:
		log.SetOutput(io.MultiWriter(writers...))
	}
}

func printHint(w io.Writer, format string, args ...interface{}) {
	color.New(color.FgHiBlack).Fprintf(w, format+"\n", args...)
}

func printSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "✅ "+format+"\n", args...)
}

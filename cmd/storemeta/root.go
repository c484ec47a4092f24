package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	BUILD      = "development"
	debug      bool
	version    bool
	loggerMode string
)

var rootCmd = &cobra.Command{
	Use:          "storemeta",
	Short:        "storemeta publishes build metadata to the build tracker",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error { // default to publish
		return runPublish(args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "x", "x", false, "logs at debug level")
	rootCmd.PersistentFlags().BoolVar(&version, "version", false, "print build version and exit")
	rootCmd.PersistentFlags().StringVar(&loggerMode, "logger", "dev", "log format, dev or plain")
	rootCmd.PersistentFlags().StringVarP(&configPath, "c", "c", "storemeta.yaml", "config file path, or - for stdin")
	rootCmd.PersistentFlags().StringVarP(&workflowPath, "workflow", "w", "workflow.json", "workflow data file with per-stage results")
	rootCmd.PersistentFlags().StringVar(&fileOutput, "file-output", "", "write the published annotations and labels as JSON")

	rootCmd.AddCommand(newPublishCmd())
}

func newPublishCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "publish",
		Short: "Aggregate stage results and update the pipeline run's annotations and labels",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return errors.New("too many args: publish takes flags only")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error { return runPublish(args) },
	}
	return c
}

package main

import (
	"os"

	"github.com/pulseid/platform/pkg/common/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	logger.Init()
	logger.Log.SetOutput(os.Stderr)
	logger.Log.SetLevel(logrus.WarnLevel)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pulsectl",
		Short:         "Encode, decode and assess PulseID emergency profiles",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.AddCommand(encodeCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(assessCmd())
	rootCmd.AddCommand(bmiCmd())
	return rootCmd
}

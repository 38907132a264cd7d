package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/otterflash/sdnav/internal/logger"
)

const AppName = "sdnav"

var (
	flagDevice   string
	flagImage    string
	flagSpeedHz  uint32
	flagLogLevel string

	log *logger.Logger
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:           AppName,
		Short:         AppName + " - read-only FAT32 navigator and copy engine for SD cards over SPI",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logger.ParseLevel(strings.ToUpper(flagLogLevel))
			log = logger.New(cmd.OutOrStderr(), level).WithPrefix("sdnav")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagDevice, "device", "", "spidev character device, e.g. /dev/spidev0.0 (Linux only)")
	rootCmd.PersistentFlags().StringVar(&flagImage, "image", "", "path to a flat card image file, for simulated/dev use instead of --device")
	rootCmd.PersistentFlags().Uint32Var(&flagSpeedHz, "speed-hz", 4_000_000, "SPI clock speed when using --device")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "debug, info, warn, or error")

	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newCopyCommand())
	rootCmd.AddCommand(newInfoCommand())

	return rootCmd.Execute()
}

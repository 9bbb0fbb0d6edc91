package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "metawash",
	Short: "metawash - strip identifying metadata from images",
	Long:  "metawash strips EXIF, XMP, and IPTC metadata from uploaded images through a scrub service and an interactive upload widget.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"metawash/internal/config"
	"metawash/internal/scrubclient"
	"metawash/internal/tui"
)

var uploadDownloadDir string

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Open the interactive upload widget",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		startPath := ""
		if len(args) == 1 {
			startPath = args[0]
		}
		downloadDir := uploadDownloadDir
		if downloadDir == "" {
			downloadDir = cfg.DownloadDir
		}

		client := scrubclient.New(cfg.ScrubURL)
		model := tui.NewModel(client, downloadDir, startPath)

		_, err := tea.NewProgram(model).Run()
		return err
	},
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadDownloadDir, "output", "o", "", "destination folder for scrubbed downloads")

	rootCmd.AddCommand(uploadCmd)
}

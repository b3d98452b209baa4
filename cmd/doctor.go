package cmd

import (
	"fmt"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// doctorCmd verifies the runtime environment: job store connectivity and the
// external binaries the media stages shell out to.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check job store connectivity and external tool availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		failures := 0

		if err := appInstance.PingStore(cmd.Context()); err != nil {
			fmt.Printf("%s job store (%s): %v\n", color.RedString("FAIL"), appInstance.Config.Store.Backend, err)
			failures++
		} else {
			fmt.Printf("%s job store (%s)\n", color.GreenString("OK"), appInstance.Config.Store.Backend)
		}

		tools := map[string]string{
			"yt-dlp":  appInstance.Config.Media.YtdlpPath,
			"ffmpeg":  appInstance.Config.Media.FfmpegPath,
			"whisper": appInstance.Config.Media.WhisperPath,
		}
		for name, path := range tools {
			if _, err := exec.LookPath(path); err != nil {
				fmt.Printf("%s %s (%s): not found\n", color.RedString("FAIL"), name, path)
				failures++
			} else {
				fmt.Printf("%s %s (%s)\n", color.GreenString("OK"), name, path)
			}
		}

		switch appInstance.Config.QnA.Provider {
		case "", "openai":
			if appInstance.Config.QnA.OpenaiApiKey == "" {
				fmt.Printf("%s OPENAI_API_KEY is not set; generation will be disabled\n", color.YellowString("WARN"))
			} else {
				fmt.Printf("%s openai provider configured\n", color.GreenString("OK"))
			}
		case "gemini":
			if appInstance.Config.QnA.GoogleApiKey == "" {
				fmt.Printf("%s GEMINI_API_KEY is not set; generation will be disabled\n", color.YellowString("WARN"))
			} else {
				fmt.Printf("%s gemini provider configured\n", color.GreenString("OK"))
			}
		}

		if failures > 0 {
			return fmt.Errorf("%d check(s) failed", failures)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/flame-cai/video-qna-backend/internal/models"
	"github.com/flame-cai/video-qna-backend/internal/subtitle"
)

var generateFormat string

// generateCmd runs the full pipeline synchronously for a single URL, without
// the HTTP surface. Useful for smoke-testing a deployment from the shell.
var generateCmd = &cobra.Command{
	Use:   "generate <video-url>",
	Short: "Generate chapters and questions for a video URL",
	Long: `Downloads the audio track for the given video URL, transcribes it, and
synthesizes timestamped chapters with comprehension questions. Runs in the
foreground and prints the result as a table.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		format, err := models.ParseFormat(generateFormat)
		if err != nil {
			return fmt.Errorf("invalid --format value %q", generateFormat)
		}

		sourceURL := args[0]
		ctx := cmd.Context()

		fmt.Printf("%s downloading audio for %s\n", color.CyanString("==>"), sourceURL)
		audioPath, duration, err := appInstance.Acquirer.AcquireAudio(ctx, sourceURL)
		if err != nil {
			return fmt.Errorf("audio acquisition failed: %w", err)
		}

		fmt.Printf("%s transcribing %s\n", color.CyanString("==>"), audioPath)
		rawSubtitles, err := appInstance.Transcriber.Transcribe(ctx, audioPath)
		if err != nil {
			return fmt.Errorf("transcription failed: %w", err)
		}

		blocks, err := subtitle.ParseBlocks(rawSubtitles)
		if err != nil {
			return fmt.Errorf("transcript parsing failed: %w", err)
		}
		transcript := subtitle.Normalize(blocks)

		fmt.Printf("%s synthesizing chapters (%s questions)\n", color.CyanString("==>"), format)
		chapters, err := appInstance.Extractor.Extract(ctx, transcript, format)
		if err != nil {
			return fmt.Errorf("chapter synthesis failed: %w", err)
		}

		fmt.Printf("%s generated %d chapters from %.1fs of video\n\n",
			color.GreenString("OK"), len(chapters), duration)
		renderChapterTable(chapters, format)
		return nil
	},
}

func renderChapterTable(chapters []models.Chapter, format models.QuestionFormat) {
	table := tablewriter.NewWriter(os.Stdout)
	headers := []string{"#", "Chapter", "Start", "End", "Question", "Answer"}
	if format == models.FormatMultipleChoice {
		headers = []string{"#", "Chapter", "Start", "End", "Question", "Correct Option"}
	}
	table.SetHeader(headers)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetRowLine(true)

	for _, ch := range chapters {
		last := ch.Answer
		if format == models.FormatMultipleChoice {
			last = strconv.Itoa(ch.CorrectOptionNumber)
			for _, opt := range ch.Options {
				if opt.OptionNumber == ch.CorrectOptionNumber {
					last = fmt.Sprintf("%d. %s", opt.OptionNumber, opt.Text)
					break
				}
			}
		}
		table.Append([]string{
			strconv.Itoa(ch.ChapterNumber),
			ch.ChapterName,
			ch.StartTimestamp,
			ch.EndTimestamp,
			ch.Question,
			last,
		})
	}
	table.Render()
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFormat, "format", "open", "Question format: open or multiple-choice")
}

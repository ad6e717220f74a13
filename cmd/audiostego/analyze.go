package main

import (
	"fmt"

	"github.com/gbitstego/audio-steg/controller"
	"github.com/gbitstego/audio-steg/internal/lsb"
	"github.com/spf13/cobra"
)

var (
	anaInput    string
	anaQuality  string
	anaPassword string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Inspect an audio file for embedded data without extracting it",
	Long: `Report whether an audio file carries an embedded payload, and if so
its cipher version, file count, and total size, without writing anything
to disk.

Examples:
  audiostego analyze -i maybe-stego.wav
  audiostego analyze -i maybe-stego.wav -q low -p "hunter2"`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&anaInput, "input", "i", "", "Audio file to inspect (.wav, .mp3, .flac)")
	analyzeCmd.Flags().StringVarP(&anaQuality, "quality", "q", "normal", "Embedding quality to assume: high, normal, or low")
	analyzeCmd.Flags().StringVarP(&anaPassword, "password", "p", "", "Password to try, if the payload is encrypted")

	_ = analyzeCmd.MarkFlagRequired("input")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	mode, ok := lsb.ParseQualityMode(anaQuality)
	if !ok {
		return fmt.Errorf("invalid quality %q (want high, normal, or low)", anaQuality)
	}

	report, err := controller.Analyze(anaInput, mode, anaPassword)
	if err != nil {
		return err
	}

	if !report.HasData {
		fmt.Println("no hidden data detected")
		return nil
	}

	fmt.Printf("cipher version: %d\n", report.CipherVersion)
	fmt.Printf("files:          %d\n", report.FileCount)
	fmt.Printf("total size:     %d bytes\n", report.TotalSize)
	if report.Corrupt {
		fmt.Println("warning: container failed validation (CRC or structure mismatch)")
	}
	for _, f := range report.Files {
		fmt.Printf("  %s (%d bytes)\n", f.Name, f.Size)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/gbitstego/audio-steg/controller"
	"github.com/gbitstego/audio-steg/internal/lsb"
	"github.com/spf13/cobra"
)

var capInput string

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Report how many bytes an audio carrier can hold at each quality",
	Long: `Report the approximate embedding capacity of an audio carrier at all
three quality modes. This is the generous, non-enforcing figure; encode
performs its own exact bit-budget check and may refuse a payload that
fits this estimate once the container and envelope overhead is counted.

Example:
  audiostego capacity -i carrier.wav`,
	RunE: runCapacity,
}

func init() {
	rootCmd.AddCommand(capacityCmd)

	capacityCmd.Flags().StringVarP(&capInput, "input", "i", "", "Carrier audio file (.wav, .mp3, .flac)")
	_ = capacityCmd.MarkFlagRequired("input")
}

func runCapacity(cmd *cobra.Command, args []string) error {
	for _, mode := range []lsb.QualityMode{lsb.QualityHigh, lsb.QualityNormal, lsb.QualityLow} {
		bytes, err := controller.Capacity(capInput, mode)
		if err != nil {
			return err
		}
		fmt.Printf("%-7s %d bytes\n", mode.String(), bytes)
	}
	return nil
}

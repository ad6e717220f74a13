package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gbitstego/audio-steg/controller"
	"github.com/gbitstego/audio-steg/internal/lsb"
	"github.com/gbitstego/audio-steg/internal/stego"
	"github.com/spf13/cobra"
)

var (
	decInput    string
	decOutDir   string
	decQuality  string
	decPassword string
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Recover files embedded in a stego audio carrier",
	Long: `Recover every file embedded in a stego audio carrier, writing each one
into the given output directory.

Output files are staged and only renamed into place once every embedded
file has been recovered successfully, so a failure partway through leaves
the output directory untouched.

Examples:
  audiostego decode -i stego.wav -o ./recovered
  audiostego decode -i stego.wav -o ./recovered -q high -p "hunter2"`,
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(&decInput, "input", "i", "", "Stego audio file (.wav, .mp3, .flac)")
	decodeCmd.Flags().StringVarP(&decOutDir, "output", "o", "", "Directory to write recovered files into")
	decodeCmd.Flags().StringVarP(&decQuality, "quality", "q", "normal", "Embedding quality used at encode time: high, normal, or low")
	decodeCmd.Flags().StringVarP(&decPassword, "password", "p", "", "Password the payload was encrypted with")

	_ = decodeCmd.MarkFlagRequired("input")
	_ = decodeCmd.MarkFlagRequired("output")
}

func runDecode(cmd *cobra.Command, args []string) error {
	mode, ok := lsb.ParseQualityMode(decQuality)
	if !ok {
		return fmt.Errorf("invalid quality %q (want high, normal, or low)", decQuality)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCancel := notifyCancel(cancel)
	defer sigCancel()

	var provider stego.PasswordProvider
	if decPassword == "" && isTerminal() {
		provider = cliPasswordProvider{}
	}

	written, err := controller.Decode(ctx, decInput, decOutDir, mode, decPassword, provider)
	if err != nil {
		return err
	}

	for _, path := range written {
		fmt.Fprintf(os.Stderr, "recovered %s\n", path)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/gbitstego/audio-steg/controller"
	"github.com/gbitstego/audio-steg/internal/lsb"
	"github.com/spf13/cobra"
)

var (
	encCarrier  string
	encSecrets  []string
	encOutput   string
	encQuality  string
	encPassword string
	encYes      bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Embed one or more secret files into an audio carrier",
	Long: `Embed one or more secret files into a WAV, MP3, or FLAC carrier using
LSB steganography.

Examples:
  audiostego encode -i carrier.wav -s secret.txt -o stego.wav
  audiostego encode -i carrier.wav -s a.zip -s b.txt -o stego.wav -q high -p "hunter2"`,
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVarP(&encCarrier, "input", "i", "", "Carrier audio file (.wav, .mp3, .flac)")
	encodeCmd.Flags().StringArrayVarP(&encSecrets, "secret", "s", nil, "Secret file to embed (repeatable)")
	encodeCmd.Flags().StringVarP(&encOutput, "output", "o", "", "Output stego audio file")
	encodeCmd.Flags().StringVarP(&encQuality, "quality", "q", "normal", "Embedding quality: high, normal, or low")
	encodeCmd.Flags().StringVarP(&encPassword, "password", "p", "", "Password to encrypt the payload (omit to embed in the clear)")
	encodeCmd.Flags().BoolVarP(&encYes, "yes", "y", false, "Overwrite output file without prompting")

	_ = encodeCmd.MarkFlagRequired("input")
	_ = encodeCmd.MarkFlagRequired("secret")
	_ = encodeCmd.MarkFlagRequired("output")
}

func runEncode(cmd *cobra.Command, args []string) error {
	mode, ok := lsb.ParseQualityMode(encQuality)
	if !ok {
		return fmt.Errorf("invalid quality %q (want high, normal, or low)", encQuality)
	}

	if _, err := os.Stat(encOutput); err == nil && !encYes {
		fmt.Fprintf(os.Stderr, "Output file %s already exists. Overwrite? [y/N]: ", encOutput)
		var response string
		fmt.Fscanln(os.Stdin, &response)
		if response != "y" && response != "yes" {
			return fmt.Errorf("aborted: output file exists")
		}
	}

	password, err := resolvePassword(encPassword, encPassword == "" && isTerminal(), true)
	if err != nil {
		return err
	}

	if err := controller.Encode(encCarrier, encSecrets, encOutput, mode, password); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Embedded %d file(s) into %s\n", len(encSecrets), encOutput)
	return nil
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/gbitstego/audio-steg/internal/stego"
)

func isTerminal() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// readPasswordSecure prompts on stderr and reads a password from stdin
// without echo when stdin is a terminal, falling back to a plain line
// read when it is piped.
func readPasswordSecure(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	if !isTerminal() {
		reader := bufio.NewReader(os.Stdin)
		pw, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(pw, "\r\n"), nil
	}

	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

// resolvePassword returns flagValue unchanged when set; otherwise, if
// interactive is true, prompts for it (with confirmation when confirm is
// true). An empty, unset flag with interactive=false means "no password".
func resolvePassword(flagValue string, interactive, confirm bool) (string, error) {
	if flagValue != "" || !interactive {
		return flagValue, nil
	}

	password, err := readPasswordSecure("Password (leave empty for none): ")
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", nil
	}
	if confirm {
		again, err := readPasswordSecure("Confirm password: ")
		if err != nil {
			return "", err
		}
		if again != password {
			return "", fmt.Errorf("passwords do not match")
		}
	}
	return password, nil
}

// cliPasswordProvider implements stego.PasswordProvider by prompting on
// stderr, used when decode hits an encrypted container and no -p flag was
// given. ctx isn't checked mid-prompt: term.ReadPassword blocks on stdin
// regardless, so Ctrl-C still lands as a normal SIGINT through
// notifyCancel rather than a cooperative cancel of this call.
type cliPasswordProvider struct{}

func (cliPasswordProvider) Provide(ctx context.Context) (stego.PasswordProviderResult, error) {
	password, err := readPasswordSecure("Password: ")
	if err != nil {
		return stego.PasswordProviderResult{}, err
	}
	if password == "" {
		return stego.PasswordProviderResult{Cancel: true}, nil
	}
	return stego.PasswordProviderResult{Password: password}, nil
}

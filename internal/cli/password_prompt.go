package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terraincognita07/sprintdesk/internal/services"
)

var errPasswordMismatch = errors.New("passwords do not match")

type passwordPrompt struct {
	in          *os.File
	reader      *bufio.Reader
	out         io.Writer
	disableEcho func(*os.File) (func(), error)
}

func newPasswordPrompt(in *os.File, out io.Writer) *passwordPrompt {
	return &passwordPrompt{
		in:          in,
		reader:      bufio.NewReader(in),
		out:         out,
		disableEcho: disableEcho,
	}
}

func (prompt *passwordPrompt) readHidden(label string) (string, error) {
	fmt.Fprint(prompt.out, label)
	restore, err := prompt.disableEcho(prompt.in)
	if err != nil {
		return "", err
	}
	line, err := prompt.reader.ReadString('\n')
	restore()
	fmt.Fprintln(prompt.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// newPassword asks twice and enforces the account password policy.
func (prompt *passwordPrompt) newPassword() (string, error) {
	password, err := prompt.readHidden("New password: ")
	if err != nil {
		return "", err
	}
	if err := services.ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	confirmation, err := prompt.readHidden("Repeat password: ")
	if err != nil {
		return "", err
	}
	if password != confirmation {
		return "", errPasswordMismatch
	}
	return password, nil
}

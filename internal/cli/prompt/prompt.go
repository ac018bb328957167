// Package prompt provides the interactive questions asked by
// `nfs4ctl config init --interactive`.
package prompt

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted returns true if the error indicates the user aborted.
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, ErrAborted)
}

func wrapError(err error) error {
	if err != nil && IsAborted(err) {
		return ErrAborted
	}
	return err
}

// Input prompts for free text with a default.
func Input(label, defaultValue string) (string, error) {
	p := promptui.Prompt{Label: label, Default: defaultValue}
	result, err := p.Run()
	return result, wrapError(err)
}

// InputServer prompts for a host:port NFS server address.
func InputServer(label, defaultValue string) (string, error) {
	p := promptui.Prompt{Label: label, Default: defaultValue, Validate: ValidateServer}
	result, err := p.Run()
	return strings.TrimSpace(result), wrapError(err)
}

// InputUint32 prompts for an unsigned 32-bit value such as a uid.
func InputUint32(label string, defaultValue uint32) (uint32, error) {
	p := promptui.Prompt{
		Label:    label,
		Default:  strconv.FormatUint(uint64(defaultValue), 10),
		Validate: ValidateUint32,
	}
	result, err := p.Run()
	if err != nil {
		return 0, wrapError(err)
	}
	v, _ := strconv.ParseUint(result, 10, 32)
	return uint32(v), nil
}

// InputUint32List prompts for a comma-separated list of ids.
func InputUint32List(label string, defaults []uint32) ([]uint32, error) {
	def := make([]string, len(defaults))
	for i, v := range defaults {
		def[i] = strconv.FormatUint(uint64(v), 10)
	}
	p := promptui.Prompt{
		Label:   label,
		Default: strings.Join(def, ","),
		Validate: func(s string) error {
			_, err := ParseUint32List(s)
			return err
		},
	}
	result, err := p.Run()
	if err != nil {
		return nil, wrapError(err)
	}
	return ParseUint32List(result)
}

// Select asks the user to choose one of items and returns it.
func Select(label string, items []string) (string, error) {
	p := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "> {{ . | cyan }}",
			Inactive: "  {{ . }}",
			Selected: "* {{ . | green }}",
		},
	}
	_, result, err := p.Run()
	return result, wrapError(err)
}

// Confirm asks a yes/no question. Answering "n" is not an error.
func Confirm(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := p.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, wrapError(err)
	}
}

// ValidateServer accepts host:port with a numeric port.
func ValidateServer(s string) error {
	host, port, err := net.SplitHostPort(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	if host == "" {
		return fmt.Errorf("host is required")
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("must be a valid port (1-65535)")
	}
	return nil
}

// ValidateUint32 accepts a decimal 32-bit unsigned integer.
func ValidateUint32(s string) error {
	if _, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32); err != nil {
		return fmt.Errorf("must be an integer between 0 and %d", uint32(1<<32-1))
	}
	return nil
}

// ParseUint32List parses "1, 2,3". An empty string yields no ids.
func ParseUint32List(s string) ([]uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]uint32, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, uint32(v))
	}
	return ids, nil
}

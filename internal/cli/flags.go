package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

func addOutputFlags(fs *pflag.FlagSet, jsonOutput *bool) {
	fs.BoolVar(jsonOutput, "json", false, "Print machine-readable JSON instead of formatted text")
}

func addUserFlag(fs *pflag.FlagSet, dst *string) {
	fs.StringVarP(dst, "user", "u", "", "User ID")
}

// userID returns the trimmed --user value or an error naming the flag.
func userID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("--user is required")
	}
	return id, nil
}

// optionalInt returns nil unless the flag was set on the command line, so
// absent values stay distinguishable from zero.
func optionalInt(fs *pflag.FlagSet, name string) (*int, error) {
	if !fs.Changed(name) {
		return nil, nil
	}
	v, err := fs.GetInt(name)
	if err != nil {
		return nil, fmt.Errorf("reading --%s: %w", name, err)
	}
	return &v, nil
}

// textArg joins positional args, falling back to the named flag.
func textArg(fs *pflag.FlagSet, flag string, args []string) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		v, err := fs.GetString(flag)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(v)
	}
	if text == "" {
		return "", fmt.Errorf("provide the text as arguments or with --%s", flag)
	}
	return text, nil
}

// Package flagx pre-scans command-line arguments for the few flags that must
// be known before the main flag set is built, such as the config file path
// and the dotenv file path.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the allowed flags from args together with their
// values. Both "-f value" and "-f=value" forms are recognised; a following
// argument that starts with "-" is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// lookupString parses the string flag known under every name in names
// (without the leading dash) and returns its last value.
func lookupString(args []string, names ...string) string {
	allowed := make([]string, 0, len(names)*2)
	for _, n := range names {
		allowed = append(allowed, "-"+n, "--"+n)
	}

	var v string
	fs := flag.NewFlagSet("prescan", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&v, n, "", "")
	}
	_ = fs.Parse(FilterArgs(args, allowed))

	return v
}

// ConfigPath returns the JSON config file path given via -c or -config,
// or "" when neither is present.
func ConfigPath(args []string) string {
	return lookupString(args, "c", "config")
}

// EnvFilePath returns the dotenv file path given via -env-file, or "".
func EnvFilePath(args []string) string {
	return lookupString(args, "env-file")
}

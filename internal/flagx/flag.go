// Package flagx lets several components parse their own flags out of one
// shared argument list without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args made of allowed flags and their values.
//
// Accepted forms:
//
//	-a http://host:8888        flag and value as separate arguments
//	--config=client.yaml       flag and value joined with '='
//	-debug                     switch (listed in switches, never takes a value)
//
// A token following a valued flag is taken as its value unless it starts
// with '-'. The result is never nil.
func FilterArgs(args []string, allowed []string, switches ...string) []string {
	valued := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		valued[f] = struct{}{}
	}
	bare := make(map[string]struct{}, len(switches))
	for _, f := range switches {
		bare[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := valued[name]; ok {
				filtered = append(filtered, arg)
			} else if _, ok := bare[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := bare[arg]; ok {
			filtered = append(filtered, arg)
			continue
		}

		if _, ok := valued[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}
	return filtered
}

// ConfigFile extracts the configuration file path given with -c or -config.
// Other arguments are ignored; the last occurrence wins. An empty string
// means no file was requested.
func ConfigFile(args []string) string {
	var path string
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))
	return path
}

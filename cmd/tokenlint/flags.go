package main

import (
	"fmt"
	"strings"
)

// cmdArgs is the parsed tail of a command line.
type cmdArgs struct {
	positional []string
	values     map[string][]string
	bools      map[string]bool
}

// parseArgs splits args into positionals, repeatable value flags
// ("--name v" or "--name=v") and boolean switches. Anything after "--" is
// positional.
func parseArgs(args []string, valueFlags, boolFlags []string) (*cmdArgs, error) {
	out := &cmdArgs{
		values: make(map[string][]string),
		bools:  make(map[string]bool),
	}
	isValue := make(map[string]bool, len(valueFlags))
	for _, f := range valueFlags {
		isValue[f] = true
	}
	isBool := make(map[string]bool, len(boolFlags))
	for _, f := range boolFlags {
		isBool[f] = true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out.positional = append(out.positional, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "--") {
			out.positional = append(out.positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		switch {
		case isBool[name]:
			if hasValue {
				return nil, fmt.Errorf("flag --%s does not take a value", name)
			}
			out.bools[name] = true
		case isValue[name]:
			if !hasValue {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("flag --%s requires a value", name)
				}
				i++
				value = args[i]
			}
			out.values[name] = append(out.values[name], value)
		default:
			return nil, fmt.Errorf("unknown flag --%s", name)
		}
	}
	return out, nil
}

// value returns the last occurrence of a value flag, or def.
func (a *cmdArgs) value(name, def string) string {
	if vs := a.values[name]; len(vs) > 0 {
		return vs[len(vs)-1]
	}
	return def
}

// list returns every occurrence of a value flag, splitting comma lists.
func (a *cmdArgs) list(name string) []string {
	var out []string
	for _, v := range a.values[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

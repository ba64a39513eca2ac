package cmd

import (
	"strings"

	"github.com/spf13/pflag"
)

// splitDumpToolArgs partitions a raw argument vector into the arguments the
// command line parser sees and the long options passed through to the dump
// tool. A --name or --name=value token that does not name a registered flag
// belongs to the dump tool. A registered non-boolean long flag in the
// two-token "--name value" form keeps its value token on the parser side.
// Everything after a bare -- goes to the dump tool verbatim.
func splitDumpToolArgs(flags *pflag.FlagSet, args []string) (cli, dumpTool []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			dumpTool = append(dumpTool, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "--") {
			cli = append(cli, arg)
			continue
		}
		name, _, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		f := flags.Lookup(name)
		if f == nil {
			dumpTool = append(dumpTool, arg)
			continue
		}
		cli = append(cli, arg)
		if f.Value.Type() != "bool" && !hasValue && i+1 < len(args) {
			i++
			cli = append(cli, args[i])
		}
	}
	return cli, dumpTool
}

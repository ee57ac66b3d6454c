package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

const usage = `Usage: farmctl <command> [flags]

Commands:
  create-admin   create a verified ADMIN account
  help           show this message

Flags are the server's: -c/-config, -d, and FARMAI_* environment variables.
`

// Run dispatches a farmctl command. admin is only used by create-admin.
func Run(ctx context.Context, cmd string, admin AdminCreator, in io.Reader, out io.Writer) error {
	switch cmd {
	case "create-admin":
		return CreateAdmin(ctx, admin, bufio.NewReader(in), out)
	case "help", "-h", "--help", "":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

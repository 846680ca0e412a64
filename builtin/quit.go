package builtin

import (
	"os"

	"github.com/rair-go/rair/command"
	"github.com/rair-go/rair/ioplug"
)

// Quit implements "quit"/"q": the only command that terminates the
// process under normal operation.
type Quit struct{}

func (*Quit) Names() []string { return []string{"quit", "q"} }
func (*Quit) MinArgs() int    { return 0 }
func (*Quit) MaxArgs() int    { return 1 }

func (*Quit) Run(_ command.Core, args []string) error {
	code := 0
	if len(args) == 1 {
		n, err := parseNum(args[0])
		if err != nil {
			return err
		}
		code = int(n)
	}
	os.Exit(code)
	return nil
}

func (*Quit) Help(command.Core) string {
	return "Commands: [quit | q]\nUsage:\nq [code]\tTerminate the process with an optional exit code (default 0).\n"
}

// PanicMsg implements "panic_msg", reserved for invariant violations: it
// terminates the process with exit code -1 after reporting an
// "Unrecoverable Error" to stderr.
type PanicMsg struct{}

func (*PanicMsg) Names() []string { return []string{"panic_msg"} }
func (*PanicMsg) MinArgs() int    { return 1 }
func (*PanicMsg) MaxArgs() int    { return -1 }

func (*PanicMsg) Run(c command.Core, args []string) error {
	msg := args[0]
	for _, a := range args[1:] {
		msg += " " + a
	}
	c.Stderr().WriteString("Unrecoverable Error: " + msg + "\n")
	os.Exit(-1)
	return ioplug.NewCustomError(msg)
}

func (*PanicMsg) Help(command.Core) string {
	return "Command: [panic_msg]\nUsage:\npanic_msg [msg]\tTerminate the process after reporting an unrecoverable error.\n"
}

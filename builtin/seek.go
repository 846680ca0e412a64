package builtin

import (
	"strings"

	"github.com/rair-go/rair/command"
)

// Seek implements "seek"/"s". A bare "+"/"-" redoes/undoes via the seek
// history; "+N"/"-N" moves relative to the current location; a bare "N" is
// an absolute move. Every move but "+"/"-" pushes history.
type Seek struct{}

func (*Seek) Names() []string { return []string{"seek", "s"} }
func (*Seek) MinArgs() int    { return 1 }
func (*Seek) MaxArgs() int    { return 1 }

func (*Seek) Run(c command.Core, args []string) error {
	arg := args[0]
	switch {
	case arg == "-":
		return c.SeekUndo()
	case arg == "+":
		return c.SeekRedo()
	case strings.HasPrefix(arg, "+"):
		offset, err := parseNum(arg[1:])
		if err != nil {
			return err
		}
		c.SeekRelative(int64(offset))
		return nil
	case strings.HasPrefix(arg, "-"):
		offset, err := parseNum(arg[1:])
		if err != nil {
			return err
		}
		c.SeekRelative(-int64(offset))
		return nil
	default:
		offset, err := parseNum(arg)
		if err != nil {
			return err
		}
		c.SeekTo(offset)
		return nil
	}
}

func (*Seek) Help(command.Core) string {
	return "Commands: [seek | s]\nUsage:\n" +
		"s +\t\tRedo seek.\n" +
		"s -\t\tUndo seek.\n" +
		"s +[offset]\tIncrease current location by offset.\n" +
		"s -[offset]\tDecrease current location by offset.\n" +
		"s [offset]\tSet current location to offset.\n"
}

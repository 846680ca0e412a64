package builtin

import (
	"fmt"
	"sort"

	"github.com/rair-go/rair/command"
	"github.com/rair-go/rair/ioplug"
)

// OpenFile implements "open"/"o". Its argument grammar is sniffed rather
// than positional: the lone required token is a URI; an optional leading
// permission token and an optional trailing address may each be present
// independently, so `open uri`, `open rw uri`, `open uri 0x1000`, and
// `open rw uri 0x1000` are all valid.
type OpenFile struct{}

func (*OpenFile) Names() []string { return []string{"open", "o"} }
func (*OpenFile) MinArgs() int    { return 1 }
func (*OpenFile) MaxArgs() int    { return 3 }

func (*OpenFile) Run(c command.Core, args []string) error {
	perm := ioplug.PermRead
	var uri string
	var addr *uint64
	permGiven := false

	switch len(args) {
	case 1:
		uri = args[0]
	case 2:
		if a, err := parseNum(args[1]); err == nil {
			uri = args[0]
			addr = &a
		} else {
			p, err := ioplug.ParsePerm(args[0])
			if err != nil {
				return err
			}
			perm = p
			permGiven = true
			uri = args[1]
		}
	case 3:
		p, err := ioplug.ParsePerm(args[0])
		if err != nil {
			return err
		}
		perm = p
		permGiven = true
		uri = args[1]
		a, err := parseNum(args[2])
		if err != nil {
			return err
		}
		addr = &a
	}

	reg := c.Registry()
	var handle int
	var err error
	switch {
	case addr != nil:
		handle, err = reg.OpenAt(uri, perm, *addr)
	case permGiven:
		// A permission token but no address: honor the backend's
		// preferred placement instead of hunting for the lowest gap.
		handle, err = reg.OpenDefault(uri, perm)
	default:
		handle, err = reg.Open(uri, perm)
	}
	if err != nil {
		return err
	}
	_, werr := c.Stdout().WriteString(fmt.Sprintf("%d\n", handle))
	return werr
}

func (*OpenFile) Help(command.Core) string {
	return "Commands: [open | o]\nUsage:\no [perm] [uri] [addr]\tOpen uri with optional permission " +
		"(default readonly) at an optional address.\n"
}

// CloseFile implements "close".
type CloseFile struct{}

func (*CloseFile) Names() []string { return []string{"close"} }
func (*CloseFile) MinArgs() int    { return 1 }
func (*CloseFile) MaxArgs() int    { return 1 }

func (*CloseFile) Run(c command.Core, args []string) error {
	handle, err := parseNum(args[0])
	if err != nil {
		return err
	}
	return c.Registry().Close(int(handle))
}

func (*CloseFile) Help(command.Core) string {
	return "Command: [close]\nUsage:\nclose [handle]\tClose the file with the given handle.\n"
}

// ListFiles implements "files".
type ListFiles struct{}

func (*ListFiles) Names() []string { return []string{"files"} }
func (*ListFiles) MinArgs() int    { return 0 }
func (*ListFiles) MaxArgs() int    { return 0 }

func (*ListFiles) Run(c command.Core, _ []string) error {
	files := c.Registry().Files()
	sort.Slice(files, func(i, j int) bool { return files[i].Handle < files[j].Handle })
	w := c.Stdout()
	if _, err := w.WriteString("Handle\tStart address\tsize\t\tPermissions\tURI\n"); err != nil {
		return err
	}
	for _, f := range files {
		line := fmt.Sprintf("%d\t0x%08x\t0x%08x\t%s\t\t%s\n", f.Handle, f.Paddr, f.Size, f.Perm, f.URI)
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

func (*ListFiles) Help(command.Core) string {
	return "Command: [files]\nUsage:\nfiles\tList all open files.\n"
}

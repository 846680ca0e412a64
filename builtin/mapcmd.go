package builtin

import (
	"fmt"
	"sort"

	"github.com/rair-go/rair/command"
	"github.com/rair-go/rair/ioplug"
)

// Map implements "map", which projects a physical range onto a virtual
// one. A zero size is a silent no-op.
type Map struct{}

func (*Map) Names() []string { return []string{"map"} }
func (*Map) MinArgs() int    { return 3 }
func (*Map) MaxArgs() int    { return 3 }

func (*Map) Run(c command.Core, args []string) error {
	phy, err := parseNum(args[0])
	if err != nil {
		return err
	}
	vir, err := parseNum(args[1])
	if err != nil {
		return err
	}
	size, err := parseNum(args[2])
	if err != nil {
		return err
	}
	if size == 0 {
		return nil
	}
	if !c.Registry().IsFullyCovered(phy, phy+size-1) {
		return &ioplug.AddressNotFoundError{Lo: phy, Hi: phy + size - 1}
	}
	_, err = c.VMap().Map(vir, phy, size)
	return err
}

func (*Map) Help(command.Core) string {
	return "Command: [map]\nUsage:\nmap [phy] [vir] [size]\tMap a physical range onto a virtual one.\n"
}

// Unmap implements "unmap"/"um". A zero size is a silent no-op.
type Unmap struct{}

func (*Unmap) Names() []string { return []string{"unmap", "um"} }
func (*Unmap) MinArgs() int    { return 2 }
func (*Unmap) MaxArgs() int    { return 2 }

func (*Unmap) Run(c command.Core, args []string) error {
	vir, err := parseNum(args[0])
	if err != nil {
		return err
	}
	size, err := parseNum(args[1])
	if err != nil {
		return err
	}
	if size == 0 {
		return nil
	}
	c.VMap().Unmap(vir, size)
	return nil
}

func (*Unmap) Help(command.Core) string {
	return "Commands: [unmap | um]\nUsage:\num [vir] [size]\tUnmap a previously mapped virtual range.\n"
}

// ListMaps implements "maps".
type ListMaps struct{}

func (*ListMaps) Names() []string { return []string{"maps"} }
func (*ListMaps) MinArgs() int    { return 0 }
func (*ListMaps) MaxArgs() int    { return 0 }

func (*ListMaps) Run(c command.Core, _ []string) error {
	maps := c.VMap().Maps()
	sort.Slice(maps, func(i, j int) bool { return maps[i].Vaddr < maps[j].Vaddr })
	w := c.Stdout()
	if _, err := w.WriteString(fmt.Sprintf("%-20s%-20s%s\n", "Virtual Address", "Physical Address", "Size")); err != nil {
		return err
	}
	for _, m := range maps {
		line := fmt.Sprintf("%-20s%-20s0x%x\n", fmt.Sprintf("0x%x", m.Vaddr), fmt.Sprintf("0x%x", m.Paddr), m.Size)
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

func (*ListMaps) Help(command.Core) string {
	return "Command: [maps]\nUsage:\nmaps\tList all memory maps.\n"
}

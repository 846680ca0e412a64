// rair runs the core command dispatcher in batch mode: there is no
// interactive REPL or visual hex viewer here, just commands fed one per
// line from stdin or from a -cmds value, through the same core.Core a
// REPL would drive.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/log"

	"github.com/rair-go/rair/builtin"
	"github.com/rair-go/rair/command"
	"github.com/rair-go/rair/config"
	"github.com/rair-go/rair/core"
	"github.com/rair-go/rair/env"
	"github.com/rair-go/rair/ioplug"
	"github.com/rair-go/rair/ioplug/b64"
	"github.com/rair-go/rair/ioplug/ihex"
	"github.com/rair-go/rair/ioplug/malloc"
	"github.com/rair-go/rair/ioplug/raw"
	"github.com/rair-go/rair/ioplug/srec"
	"github.com/rair-go/rair/registry"
	"github.com/rair-go/rair/suggest"
	"github.com/rair-go/rair/vmap"
)

var (
	cmdsFlag   = flag.String("cmds", "", "Semicolon-separated commands to run instead of reading stdin")
	configFlag = flag.String("config", "", "Path to an optional TOML startup config (see config.DefaultConfig)")
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage: rair [-config path] [-cmds "cmd1;cmd2"]

Without -cmds, rair reads commands one per line from stdin until EOF and
runs each through the built-in command table (open, map, px, wx, seek,
...).
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := env.Config(env.NewDefault())
	var autoOpen []string
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			log.Panicf("rair: %v", err)
		}
		cfg = config.AsEnv(loaded)
		autoOpen = loaded.AutoOpen
	}

	reg := registry.New(malloc.New(), ihex.New(), srec.New(), b64.New(), raw.New())
	var vm vmap.Engine
	c := core.New(reg, &vm, os.Stdout, os.Stderr, cfg)

	builtin.Register(c.Table)
	dispatcher := command.NewDispatcher(c.Table, suggest.New(builtin.Names()))

	for _, uri := range autoOpen {
		if _, err := reg.Open(uri, ioplug.PermRead); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Auto-open Failed\n%v (uri=%q)\n", err, uri)
		}
	}

	if *cmdsFlag != "" {
		for _, line := range strings.Split(*cmdsFlag, ";") {
			dispatcher.Dispatch(c, line)
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		dispatcher.Dispatch(c, scanner.Text())
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		log.Panicf("rair: reading stdin: %v", err)
	}
}

package main

import (
    "context"
    "flag"
    "os"
    "os/signal"
    "path"
    "syscall"

    "github.com/google/subcommands"
)

func main() {
    a := newApp(os.Stdin, os.Stdout, os.Stderr)
    a.SetFlags(flag.CommandLine)

    commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
    commander.Register(commander.HelpCommand(), "")
    commander.Register(commander.FlagsCommand(), "")
    commander.Register(&trackCmd{app: a}, "")
    commander.Register(&quoteCmd{app: a}, "")

    flag.Parse()
    // track is the default command
    if flag.NArg() == 0 {
        _ = flag.CommandLine.Parse(append(os.Args[1:], "track"))
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    code := commander.Execute(ctx)
    stop()
    os.Exit(int(code))
}

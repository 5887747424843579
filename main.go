package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

const version = "0.1.0"

var (
	versionOption = flag.Bool("version", false, "accessorgen version")
	printOption   = flag.Bool("print", false, "print the generated source to stdout with syntax highlighting")
	configOption  = flag.String("config", "", "path to the config file")
)

func main() {
	flag.Parse()

	if *versionOption {
		fmt.Printf("accessorgen v%s", version)

		return
	}

	ctx := context.Background()
	if err := run(ctx, *configOption, *printOption); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"taxbook/cmd/classify"
	"taxbook/cmd/convert"
	"taxbook/cmd/ingest"
	"taxbook/cmd/root"
	"taxbook/cmd/rules"
	"taxbook/cmd/run"
)

func init() {
	root.Init()
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(run.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

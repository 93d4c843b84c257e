package main

import "github.com/danrusdi/card-reconciliation/cmd"

func main() {
	cmd.Execute()
}

package main

import "github/chapool/go-ledger-app/cmd"

func main() {
	cmd.Execute()
}

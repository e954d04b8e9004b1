package main

import "money-ledger/cmd"

func main() {
	cmd.Execute()
}

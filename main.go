package main

import "github.com/frahmantamala/budgetwise/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/jsphweid/tabdex/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/jsphweid/scaletree/cmd"

func main() {
	cmd.Execute()
}

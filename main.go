package main

import "github.com/jsphweid/axsd/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/crystaldolphin/guardrail/cmd"

func main() {
	cmd.Execute()
}

package main

import (
	"os"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:], cmd.Streams{
		Out: os.Stdout,
		Err: os.Stderr,
	}))
}

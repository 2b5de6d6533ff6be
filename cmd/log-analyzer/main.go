package main

import "github.com/pankaj-dahiya-devops/secops-toolkit/internal/cli"

func main() {
	cli.Main(newRootCmd())
}

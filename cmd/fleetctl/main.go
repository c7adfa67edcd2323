package main

import "github.com/wekeepgrowing/semo-fleet/internal/cli"

func main() {
	cli.Execute()
}

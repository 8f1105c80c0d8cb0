package main

import "delivery-scheduler/internal/cli"

// main is the application composition root; wiring lives in internal/cli.
func main() {
	cli.Execute()
}

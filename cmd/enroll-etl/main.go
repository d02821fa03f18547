package main

import "github.com/noah-isme/enroll-etl/internal/cli"

func main() {
	cli.Execute()
}

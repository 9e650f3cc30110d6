package main

import "github.com/tekkenfreya/gowater-hr-management-system-sub000/cli"

func main() {
	cli.Execute()
}

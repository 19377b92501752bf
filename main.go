package main

import "github.com/LasmGratel/mod-compability-checker/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/kjetilpp/mysqldumpall/cmd"

func main() {
	cmd.Execute()
}

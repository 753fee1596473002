package main

import "github.com/elektronenhirn/oper/cmd"

func main() {
	cmd.Run()
}

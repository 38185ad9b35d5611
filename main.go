package main

import "github.com/chrisdamba/couriermatch/cmd"

func main() {
	cmd.Execute()
}

package main

import (
	"fmt"
	"os"
)

func main() {
	app := newAppContext()
	err := newRootCmd(app).Execute()
	app.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

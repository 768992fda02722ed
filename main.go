package main

import (
	"os"

	"github.com/Art-of-Technology/collab/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

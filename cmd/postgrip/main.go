package main

import (
	"os"

	"postgrip/internal/app"
)

func main() {
	os.Exit(app.Main(os.Args[1:]))
}

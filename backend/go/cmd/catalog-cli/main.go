package main

import "filmoteca/backend/go/cmd/catalog-cli/cmd"

func main() {
	cmd.Execute()
}

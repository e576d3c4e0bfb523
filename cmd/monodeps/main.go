package main

import (
	"os"

	"github.com/monodeps/monodeps/cmd/monodeps/validate"
)

func main() {
	root := newRootCmd()
	root.AddCommand(validate.NewValidateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

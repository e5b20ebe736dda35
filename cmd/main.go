package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/breeew/stellar-api/cmd/service"
)

func main() {
	root := &cobra.Command{
		Use:   "stellar",
		Short: "stellar api",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("empty command, try `stellar service -h`")
		},
	}

	root.AddCommand(service.NewCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

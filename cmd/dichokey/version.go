package main

import (
	"fmt"
	"strings"

	"github.com/dichokey/dichokey"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dichokey",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dichokey version %s\n", strings.TrimSpace(dichokey.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

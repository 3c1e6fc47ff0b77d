package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Optional .env for CAUSAL_* settings; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "causalctl",
		Short: "Constraint-based causal structure discovery over AMR resistance panels",
	}

	rootCmd.AddCommand(
		newSelfcheckCmd(),
		newProfileCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens, err := NewTokenStore()
		if err != nil {
			return err
		}
		if err := tokens.Clear(); err != nil {
			return fmt.Errorf("clearing token: %w", err)
		}
		if isJSON() {
			return printJSON(map[string]string{"status": "logged out"})
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

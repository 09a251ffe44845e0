package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var addDescription string

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")

		store, bus, err := newStore()
		if err != nil {
			return err
		}
		defer bus.Close()
		defer store.Close()

		err = store.ApplyCreate(cmd.Context(), title, addDescription)
		printOutcomes(bus)
		return err
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "desc", "d", "", "task description")
	rootCmd.AddCommand(addCmd)
}

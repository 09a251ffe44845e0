package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/gateway"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.New("task id must be a number")
		}

		if !deleteYes && !confirmOrAbort(fmt.Sprintf("Delete task %d? [y/N]: ", id)) {
			return nil
		}

		store, bus, err := newStore()
		if err != nil {
			return err
		}
		defer bus.Close()
		defer store.Close()

		if err := store.Load(cmd.Context(), gateway.ListFilter{}); err != nil {
			printOutcomes(bus)
			return err
		}

		err = store.ApplyDelete(cmd.Context(), id)
		printOutcomes(bus)
		return err
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

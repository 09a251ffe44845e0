package cmd

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/gateway"
)

var doneUndone bool

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.New("task id must be a number")
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

		err = store.ApplyToggle(cmd.Context(), id, !doneUndone)
		printOutcomes(bus)
		return err
	},
}

func init() {
	doneCmd.Flags().BoolVar(&doneUndone, "undone", false, "mark the task as pending instead")
	rootCmd.AddCommand(doneCmd)
}

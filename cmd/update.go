package cmd

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/gateway"
	"github.com/josephgoksu/taskdeck/models"
)

var (
	updateTitle       string
	updateDescription string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task's title or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.New("task id must be a number")
		}

		var fields models.TaskFields
		if cmd.Flags().Changed("title") {
			fields.Title = &updateTitle
		}
		if cmd.Flags().Changed("desc") {
			fields.Description = &updateDescription
		}
		if fields.Title == nil && fields.Description == nil {
			return errors.New("nothing to update: pass --title or --desc")
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

		err = store.ApplyUpdate(cmd.Context(), id, fields)
		printOutcomes(bus)
		return err
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVarP(&updateDescription, "desc", "d", "", "new description")
	rootCmd.AddCommand(updateCmd)
}

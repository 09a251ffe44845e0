package cmd

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/gateway"
	"github.com/josephgoksu/taskdeck/internal/ui"
	"github.com/josephgoksu/taskdeck/models"
)

var (
	listStatus string
	listSort   string
	listSearch string
	listPage   int
	listUI     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks from the task service. Filtering, search and sorting are
applied locally on the fetched set, so the flags behave identically to the
interactive dashboard. Use --ui to open the dashboard instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := models.ParseStatusFilter(listStatus)
		if err != nil {
			return err
		}
		sortKey, err := models.ParseSortKey(listSort)
		if err != nil {
			return err
		}

		store, bus, err := newStore()
		if err != nil {
			return err
		}
		defer bus.Close()
		defer store.Close()

		store.SetStatusFilter(status)
		store.SetSort(sortKey)
		store.SetSearch(listSearch)
		store.SetPage(listPage)

		if listUI {
			model := ui.NewDashboardModel(cmd.Context(), store, bus)
			_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		}

		if err := store.Load(cmd.Context(), gateway.ListFilter{Status: status, Search: listSearch}); err != nil {
			printOutcomes(bus)
			return err
		}
		// Load resets nothing locally, but a smaller result set can leave the
		// requested page out of range; SetPage reclamps.
		store.SetPage(listPage)

		win := store.Page()
		if isJSON() {
			return printJSON(win)
		}

		if len(win.Items) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		table := ui.Table{Headers: []string{"ID", "", "TITLE", "DESCRIPTION"}, MaxWidth: 48}
		for _, task := range win.Items {
			check := " "
			if task.Completed {
				check = "x"
			}
			table.Rows = append(table.Rows, []string{
				strconv.FormatInt(task.ID, 10),
				check,
				task.Title,
				task.Description,
			})
		}
		fmt.Println(table.Render())

		counts := store.Counts()
		fmt.Printf("Showing %d to %d of %d • page %d/%d\n",
			win.ShowingFrom(), win.ShowingTo(), win.TotalItems, win.Page, win.TotalPages)
		fmt.Printf("%d tasks • %d pending • %d completed\n",
			counts.Total, counts.Pending, counts.Completed)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "all", "status filter: all, pending or completed")
	listCmd.Flags().StringVar(&listSort, "sort", "created", "sort order: created, title or completed")
	listCmd.Flags().StringVar(&listSearch, "search", "", "search in title and description")
	listCmd.Flags().IntVar(&listPage, "page", 1, "page to show")
	listCmd.Flags().BoolVar(&listUI, "ui", false, "open the interactive dashboard")
	rootCmd.AddCommand(listCmd)
}

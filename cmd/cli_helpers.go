package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/josephgoksu/taskdeck/internal/collection"
	"github.com/josephgoksu/taskdeck/internal/notify"
	"github.com/josephgoksu/taskdeck/internal/ui"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// newStore builds a store wired to the configured gateway and a fresh bus.
// Each command invocation is its own view, with its own collection.
func newStore() (*collection.Store, *notify.Bus, error) {
	gw, err := NewGateway()
	if err != nil {
		return nil, nil, err
	}
	bus := notify.NewBus()
	store := collection.NewStore(gw, bus, GetConfig().UI.PageSize)
	return store, bus, nil
}

// printOutcomes renders whatever the bus accumulated during a one-shot
// command, so CLI users see the same messages the dashboard shows.
func printOutcomes(bus *notify.Bus) {
	for _, n := range bus.Active() {
		style := ui.NotificationStyle(n.Kind)
		fmt.Println(style.Render(ui.NotificationIcon(n.Kind) + " " + n.Message))
	}
}

func confirmOrAbort(prompt string) bool {
	if isJSON() {
		return true
	}
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Println("Cancelled.")
		return false
	}
	return true
}

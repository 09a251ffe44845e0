package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var registerName string

var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Create an account on the task service",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := ""
		if len(args) == 1 {
			email = args[0]
		}
		if email == "" {
			var err error
			email, err = promptLine("Email: ")
			if err != nil {
				return err
			}
		}
		name := registerName
		if name == "" {
			var err error
			name, err = promptLine("Name: ")
			if err != nil {
				return err
			}
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return errors.New("passwords do not match")
		}

		gw, err := NewGateway()
		if err != nil {
			return err
		}
		token, err := gw.Register(cmd.Context(), email, name, password)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		tokens, err := NewTokenStore()
		if err != nil {
			return err
		}
		if err := tokens.Save(token.AccessToken); err != nil {
			return fmt.Errorf("saving token: %w", err)
		}

		if isJSON() {
			return printJSON(map[string]string{"status": "registered", "email": email})
		}
		fmt.Printf("Account created for %s. You are now logged in.\n", email)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name for the new account")
	rootCmd.AddCommand(registerCmd)
}

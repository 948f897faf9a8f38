package cmd

import (
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the action names accepted in scenarios and request_action",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(map[string][]string{"actions": model.ActionNames()})
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}

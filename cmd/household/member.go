package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func memberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage family members",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Add a family member",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runMemberAdd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List family members",
		Args:  cobra.NoArgs,
		RunE:  runMemberList,
	})
	return cmd
}

func runMemberAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := a.members.Create(cmd.Context(), household, strings.Join(args, " "))
	if err != nil {
		return err
	}
	newPrinter(cmd.OutOrStdout()).Success(fmt.Sprintf("added %s (%s)", m.Name, m.ID))
	return nil
}

func runMemberList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	members, err := a.members.List(cmd.Context(), household)
	if err != nil {
		return err
	}
	out := newPrinter(cmd.OutOrStdout())
	if len(members) == 0 {
		out.Info("no members yet, add one with 'household member add NAME'")
		return nil
	}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{m.ID, m.Name})
	}
	return out.Table([]string{"ID", "NAME"}, rows)
}

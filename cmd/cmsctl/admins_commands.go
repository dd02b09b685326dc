// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/stonemedia/internal/platform/sec"
)

func newAdminsCommand(ctx *commandContext) *cobra.Command {
	adminsCmd := &cobra.Command{
		Use:   "admins",
		Short: "Manage the sign-in allowlist",
	}

	adminsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List allowlisted emails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackends(cmd.Context(), func(b *backends) error {
				members, err := b.authService(ctx.log()).Members(cmd.Context())
				if err != nil {
					return err
				}
				if len(members) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Allowlist is empty")
					return nil
				}
				rows := make([][]string, 0, len(members))
				for _, member := range members {
					rows = append(rows, []string{member.Email, string(member.Role)})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Email", "Role"}, rows, nil))
				return nil
			})
		},
	})

	var role string
	grantCmd := &cobra.Command{
		Use:   "grant <email>",
		Short: "Allowlist an email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := sec.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q (want admin or editor)", role)
			}
			return ctx.withBackends(cmd.Context(), func(b *backends) error {
				member, err := b.authService(ctx.log()).Grant(cmd.Context(), args[0], parsed)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Granted %s to %s\n", member.Role, member.Email)
				return nil
			})
		},
	}
	grantCmd.Flags().StringVar(&role, "role", string(sec.RoleEditor), "Role to grant (admin or editor)")
	adminsCmd.AddCommand(grantCmd)

	adminsCmd.AddCommand(&cobra.Command{
		Use:   "revoke <email>",
		Short: "Remove an email from the allowlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackends(cmd.Context(), func(b *backends) error {
				if err := b.authService(ctx.log()).Revoke(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Revoked %s\n", args[0])
				return nil
			})
		},
	})

	return adminsCmd
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/core/taxonomy"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "Inspect portfolio projects",
	}

	var (
		service  string
		category string
		statuses []string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := project.Filter{
				Service:  taxonomy.ServiceSlug(service),
				Category: taxonomy.CategorySlug(category),
			}
			for _, raw := range statuses {
				filter.Statuses = append(filter.Statuses, project.Status(raw))
			}

			return ctx.withBackends(cmd.Context(), func(b *backends) error {
				projects, err := b.projectService(ctx.log()).ListAdmin(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if len(projects) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No projects")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderProjects(projects))
				return nil
			})
		},
	}
	listCmd.Flags().StringVar(&service, "service", "", "Only projects of this service")
	listCmd.Flags().StringVar(&category, "category", "", "Only projects of this category")
	listCmd.Flags().StringSliceVar(&statuses, "status", nil, "Only projects with these statuses (repeatable)")
	projectsCmd.AddCommand(listCmd)

	return projectsCmd
}

func renderProjects(projects []*project.Project) string {
	headers := []string{"ID", "Title", "Slug", "Service", "Category", "Order", "Status", "Build"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(projects))
	for _, record := range projects {
		build := string(record.BuildStatus)
		if record.BuildError != "" {
			build += ": " + record.BuildError
		}
		rows = append(rows, []string{
			record.ID,
			record.Title,
			record.Slug,
			string(record.ServiceSlug),
			string(record.CategorySlug),
			strconv.FormatFloat(record.Order, 'f', -1, 64),
			string(record.Status),
			build,
		})
	}
	return renderTable(headers, rows, aligns)
}

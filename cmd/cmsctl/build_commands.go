// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/taibuivan/stonemedia/internal/core/build"
	"github.com/taibuivan/stonemedia/internal/core/project"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Trigger and follow HLS builds",
	}

	var watch bool
	triggerCmd := &cobra.Command{
		Use:   "trigger <project-id>",
		Short: "Ask the build service to package a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackends(cmd.Context(), func(b *backends) error {
				result, err := b.workflow(ctx.log()).TriggerBuild(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !result.Accepted() {
					return fmt.Errorf("build service refused the job (status %d): %s", result.StatusCode, result.Error)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Build accepted (status %d)\n", result.StatusCode)
				if !watch {
					return nil
				}
				return watchBuild(cmd, b.poller(ctx.log()), args[0])
			})
		},
	}
	triggerCmd.Flags().BoolVar(&watch, "watch", false, "Follow the build until it finishes")
	buildCmd.AddCommand(triggerCmd)

	buildCmd.AddCommand(&cobra.Command{
		Use:   "watch <project-id>",
		Short: "Follow a project's build until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackends(cmd.Context(), func(b *backends) error {
				return watchBuild(cmd, b.poller(ctx.log()), args[0])
			})
		},
	})

	return buildCmd
}

// watchBuild prints every status change and fails when the build ends in error.
func watchBuild(cmd *cobra.Command, poller *build.Poller, projectID string) error {
	out := cmd.OutOrStdout()
	var previous project.BuildStatus

	last, err := poller.Watch(cmd.Context(), projectID, func(state project.BuildState) {
		if state.Status != previous {
			printState(out, state)
			previous = state.Status
		}
	})
	if errors.Is(err, build.ErrPollTimeout) {
		return fmt.Errorf("gave up waiting: project %s is still %s", projectID, last.Status)
	}
	if err != nil {
		return err
	}
	if last.Status == project.BuildError {
		return fmt.Errorf("build failed: %s", last.Error)
	}
	return nil
}

func printState(out io.Writer, state project.BuildState) {
	switch {
	case state.Error != "":
		fmt.Fprintf(out, "%s: %s\n", state.Status, state.Error)
	case state.HLSPath != "":
		fmt.Fprintf(out, "%s: %s\n", state.Status, state.HLSPath)
	default:
		fmt.Fprintln(out, state.Status)
	}
}

// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/hdmeal-api/internal/cachepolicy"
	"github.com/tomtom215/hdmeal-api/internal/window"
)

func init() {
	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "Print the dates a report would cover",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}

	headerCmd := &cobra.Command{
		Use:   "cache-header",
		Short: "Print the Cache-Control value a report would carry",
		Args:  cobra.NoArgs,
		RunE:  runCacheHeader,
	}
	headerCmd.Flags().Int("max-age", cachepolicy.DefaultMaxAge, "s-maxage in seconds")

	RootCmd.AddCommand(windowCmd, headerCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	w, err := pinnedWindow()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	today := w.Today()
	for _, d := range w.Days() {
		marker := ""
		if d.Equal(today) {
			marker = "  (today)"
		}
		fmt.Fprintf(out, "%s%s\n", window.Key(d), marker)
	}
	return nil
}

func runCacheHeader(cmd *cobra.Command, args []string) error {
	maxAge, _ := cmd.Flags().GetInt("max-age")
	if maxAge <= 0 {
		return fmt.Errorf("--max-age must be positive, got %d", maxAge)
	}
	w, err := pinnedWindow()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cachepolicy.Header(w.Now(), maxAge))
	return nil
}

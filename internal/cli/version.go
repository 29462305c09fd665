// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tomtom215/hdmeal-api/internal/app"
	"github.com/tomtom215/hdmeal-api/internal/validation"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build and API version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hdmeal %s (%s)\nAPI versions: %v\n",
				app.Version, runtime.Version(), validation.SupportedVersions)
		},
	})
}

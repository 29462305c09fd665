// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

package cli

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/hdmeal-api/internal/api"
	"github.com/tomtom215/hdmeal-api/internal/app"
	"github.com/tomtom215/hdmeal-api/internal/assembler"
	"github.com/tomtom215/hdmeal-api/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the report once and print it",
		RunE:  runFetch,
	}

	cmd.Flags().StringP("version", "v", "v4", "Response version: v2, v3 or v4")
	cmd.Flags().BoolP("pretty", "p", false, "Indent the JSON output")
	cmd.Flags().Bool("headers", false, "Print status and headers before the body")

	RootCmd.AddCommand(cmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	version, _ := cmd.Flags().GetString("version")
	pretty, _ := cmd.Flags().GetBool("pretty")
	headers, _ := cmd.Flags().GetBool("headers")

	if _, err := api.ParseVersion(version); err != nil {
		return err
	}
	if err := app.LoadDotEnv(); err != nil {
		return err
	}
	if err := applyConfigFlag(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.InitLogging(cfg)

	if !cmd.Flags().Changed("timezone") {
		timezone = cfg.Window.Timezone
	}
	w, err := pinnedWindow()
	if err != nil {
		return err
	}
	a, err := app.New(cfg, app.WindowPinned)
	if err != nil {
		return err
	}
	h := api.NewHandler(assembler.New(a.Source, w, assembler.Options{
		Grades:   cfg.School.Grades,
		Classes:  cfg.School.Classes,
		MaxPages: cfg.NEIS.MaxPages,
	}), api.HandlerConfig{MaxAge: cfg.Cache.MaxAge, RequestTimeout: cfg.Server.RequestTimeout})

	return writeResponse(cmd, h.Respond(cmd.Context(), version), pretty, headers)
}

// writeResponse prints resp and turns a non-200 status into an error.
func writeResponse(cmd *cobra.Command, resp *api.Response, pretty, headers bool) error {
	out := cmd.OutOrStdout()
	if headers {
		fmt.Fprintf(out, "%d %s\n", resp.Status, http.StatusText(resp.Status))
		for _, key := range []string{"Content-Type", "Cache-Control"} {
			if v := resp.Header.Get(key); v != "" {
				fmt.Fprintf(out, "%s: %s\n", key, v)
			}
		}
		fmt.Fprintln(out)
	}

	body := resp.Body
	if pretty && resp.Status == http.StatusOK {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err != nil {
			return err
		}
		body = buf.Bytes()
	}
	fmt.Fprintln(out, string(body))

	if resp.Status != http.StatusOK {
		return fmt.Errorf("request failed: %d %s", resp.Status, http.StatusText(resp.Status))
	}
	return nil
}

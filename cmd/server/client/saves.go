package client

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-gm/internal/repositories/saves"
)

var savesLimit int

var saveCmd = &cobra.Command{
	Use:   "save SESSION_ID",
	Short: "Save a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout(cmd)
		defer cancel()

		var resp struct {
			Message   string    `json:"message"`
			Filename  string    `json:"filename"`
			Timestamp time.Time `json:"timestamp"`
		}
		raw, err := do(ctx, "POST", "/api/save", map[string]string{"sessionId": args[0]}, &resp)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), raw)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s at %s\n", resp.Message, resp.Filename, resp.Timestamp.Local().Format(time.DateTime))
		return nil
	},
}

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List saved games, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := withTimeout(cmd)
		defer cancel()

		path := "/api/saves"
		if savesLimit > 0 {
			path += "?limit=" + strconv.Itoa(savesLimit)
		}

		var resp struct {
			Saves []saves.Summary `json:"saves"`
		}
		raw, err := do(ctx, "GET", path, nil, &resp)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, raw)
		}
		if len(resp.Saves) == 0 {
			fmt.Fprintln(out, "no saved games")
			return nil
		}
		for _, s := range resp.Saves {
			fmt.Fprintf(out, "%s  %s the %s %s  [%s]  %s\n",
				s.Handle, s.CharacterName, s.Race, s.Class, s.Model, s.LastSaved.Local().Format(time.DateTime))
		}
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load FILENAME",
	Short: "Load a saved game back into the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout(cmd)
		defer cancel()

		var resp struct {
			SessionID string `json:"sessionId"`
			Message   string `json:"message"`
			Replaced  bool   `json:"replaced"`
		}
		raw, err := do(ctx, "POST", "/api/load", map[string]string{"filename": args[0]}, &resp)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), raw)
		}

		note := ""
		if resp.Replaced {
			note = " (replaced the live session)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: session %s%s\n", resp.Message, resp.SessionID, note)
		return nil
	},
}

func init() {
	savesCmd.Flags().IntVar(&savesLimit, "limit", 0, "Maximum number of saves to list (0 for all)")
}

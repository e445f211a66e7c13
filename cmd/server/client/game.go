package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
)

// turnResponse mirrors the server's reply to start, act and continue
type turnResponse struct {
	SessionID string                 `json:"sessionId"`
	Status    string                 `json:"status"`
	Message   string                 `json:"message"`
	Narrative string                 `json:"narrative"`
	Rolls     []*entities.RollResult `json:"rolls"`
	Session   *entities.Session       `json:"session"`
}

var (
	startCharacter entities.Character
	startModel     string
	startLanguage  string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Create a character and play the opening scene",
	RunE:  runStart,
}

var actCmd = &cobra.Command{
	Use:   "act SESSION_ID ACTION...",
	Short: "Send a player action",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAct,
}

var continueCmd = &cobra.Command{
	Use:   "continue SESSION_ID",
	Short: "Advance the story one step without a player action",
	Args:  cobra.ExactArgs(1),
	RunE:  runContinue,
}

var stateCmd = &cobra.Command{
	Use:   "state SESSION_ID",
	Short: "Show a session's character, position and companions",
	Args:  cobra.ExactArgs(1),
	RunE:  runState,
}

func init() {
	f := startCmd.Flags()
	f.StringVar(&startCharacter.Name, "name", "", "Character name")
	f.StringVar(&startCharacter.Race, "race", "Human", "Character race")
	f.StringVar(&startCharacter.Class, "class", "Fighter", "Character class")
	f.StringVar(&startCharacter.Gender, "gender", "", "Character gender")
	f.IntVar(&startCharacter.Level, "level", 1, "Character level")
	f.IntVar(&startCharacter.MaxHP, "hp", 10, "Max hit points")
	f.IntVar(&startCharacter.MaxMP, "mp", 0, "Max mana points")
	f.IntVar(&startCharacter.AC, "ac", 10, "Armor class")
	f.StringVar(&startModel, "model", "", "Model to narrate with (server default when empty)")
	f.StringVar(&startLanguage, "lang", entities.LanguageEnglish, "Narration language (en or fr)")
	_ = startCmd.MarkFlagRequired("name") // nolint:errcheck // flag is defined above
}

func runStart(cmd *cobra.Command, _ []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	character := startCharacter
	character.HP = character.MaxHP
	character.MP = character.MaxMP

	req := map[string]any{
		"character": character,
		"model":     startModel,
		"language":  startLanguage,
	}

	var resp turnResponse
	raw, err := do(ctx, "POST", "/api/start", req, &resp)
	if err != nil {
		return err
	}
	return printTurn(cmd.OutOrStdout(), raw, &resp)
}

func runAct(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	req := map[string]string{
		"sessionId": args[0],
		"action":    strings.Join(args[1:], " "),
	}

	var resp turnResponse
	raw, err := do(ctx, "POST", "/api/action", req, &resp)
	if err != nil {
		return err
	}
	return printTurn(cmd.OutOrStdout(), raw, &resp)
}

func runContinue(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	var resp turnResponse
	raw, err := do(ctx, "POST", "/api/continue", map[string]string{"sessionId": args[0]}, &resp)
	if err != nil {
		return err
	}
	return printTurn(cmd.OutOrStdout(), raw, &resp)
}

func runState(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	var sess entities.Session
	raw, err := do(ctx, "GET", "/api/state/"+args[0], nil, &sess)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, raw)
	}

	c := sess.Character
	fmt.Fprintf(out, "%s, level %d %s %s (model %s)\n", c.Name, c.Level, c.Race, c.Class, sess.Model)
	fmt.Fprintf(out, "  HP %d/%d  MP %d/%d  AC %d\n", c.HP, c.MaxHP, c.MP, c.MaxMP, c.AC)
	fmt.Fprintf(out, "  Position %s, %d places mapped\n", sess.Position.String(), len(sess.Map))
	if len(sess.Companions) > 0 {
		names := make([]string, 0, len(sess.Companions))
		for _, comp := range sess.Companions {
			names = append(names, comp.Name)
		}
		fmt.Fprintf(out, "  Companions: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func printTurn(out io.Writer, raw []byte, resp *turnResponse) error {
	if asJSON {
		return printJSON(out, raw)
	}

	if resp.Narrative != "" {
		fmt.Fprintln(out, resp.Narrative)
	}
	for _, r := range resp.Rolls {
		label := r.Expression
		if r.Label != "" {
			label = r.Label + " " + r.Expression
		}
		fmt.Fprintf(out, "🎲 %s = %d\n", label, r.Total)
	}
	if resp.Status == "continue" {
		fmt.Fprintf(out, "\n(the story continues: client continue %s)\n", resp.SessionID)
	} else {
		fmt.Fprintf(out, "\nsession %s\n", resp.SessionID)
	}
	return nil
}

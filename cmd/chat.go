package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/capex-close/internal/agent"
	"github.com/sells-group/capex-close/pkg/anthropic"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the close assistant",
	Long:  "Starts an interactive session with the close assistant. The assistant loads the registry, runs the close calculations, and walks through exceptions conversationally.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Anthropic.Key == "" {
			return eris.New("chat: anthropic key not configured (set CAPEX_ANTHROPIC_KEY)")
		}

		ctx := cmd.Context()

		s, err := newSession()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		client := anthropic.NewClient(cfg.Anthropic.Key)
		registry := agent.NewRegistry(s, st)
		orch := agent.NewOrchestrator(client, registry, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, s.Period())

		fmt.Printf("CapEx close assistant (period %s). Type 'quit' to stop.\n\n", s.Period())

		scanner := bufio.NewScanner(os.Stdin)
		for {
			if orch.AwaitingAnswer() {
				fmt.Print("Answer> ")
			} else {
				fmt.Print("You> ")
			}
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}

			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "quit" || input == "exit" {
				return nil
			}

			if err := orch.Send(ctx, input, renderEvent); err != nil {
				zap.L().Error("chat: send failed", zap.Error(err))
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			fmt.Println()
		}
	},
}

// renderEvent prints one orchestrator event to the terminal.
func renderEvent(e agent.Event) {
	switch e.Type {
	case agent.EventText:
		fmt.Println(e.Text)
	case agent.EventToolCall:
		fmt.Printf("  [%s]\n", e.ToolName)
	case agent.EventToolResult:
		if e.IsError {
			fmt.Printf("  [%s failed: %s]\n", e.ToolName, e.ResultPreview)
		}
	case agent.EventClarify:
		fmt.Printf("\n%s\n", e.Question)
		for i, opt := range e.Options {
			fmt.Printf("  %d. %s\n", i+1, opt)
		}
	case agent.EventError:
		fmt.Fprintf(os.Stderr, "error: %s\n", e.Message)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

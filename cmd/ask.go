package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"maps"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/guardrail/internal/dispatch"
	"github.com/crystaldolphin/guardrail/internal/shared/cmdutils"
)

var (
	askMessage string
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question, calling an MCP tool when the model asks for one",
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMessage, "message", "m", "", "Ask a single question and exit")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the answer, tool call and tool result as JSON")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runAsk(cmd *cobra.Command, _ []string) error {
	_, container, err := loadContainer()
	if err != nil {
		return err
	}
	d := container.Dispatcher()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if askMessage != "" {
		return askOnce(ctx, d, out, errOut, askMessage)
	}
	return runInteractive(ctx, d, cmd.InOrStdin(), out, errOut)
}

// askOnce runs one question through the dispatcher and prints the answer.
func askOnce(ctx context.Context, d *dispatch.Dispatcher, out, errOut io.Writer, question string) error {
	fmt.Fprintf(errOut, "  ↳ thinking...\n")
	ans, err := d.Run(ctx, question)
	if err != nil {
		return err
	}
	if askJSON {
		return cmdutils.PrintJSON(out, ans)
	}
	if ans.Intent != nil {
		fmt.Fprintf(errOut, "  ↳ %s(%s)\n", ans.Intent.Tool, formatArgs(ans.Intent.Arguments))
		fmt.Fprintf(errOut, "  ↳ %s\n", firstLine(ans.ToolResult))
	}
	cmdutils.PrintResponse(out, ans.Text)
	return nil
}

// runInteractive reads questions line by line until EOF, an exit command or
// cancellation. A failed question is reported and the loop continues.
func runInteractive(ctx context.Context, d *dispatch.Dispatcher, in io.Reader, out, errOut io.Writer) error {
	fmt.Fprintf(out, "%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", logo)

	// The reader goroutine can stay blocked in Scan after ctx ends; it exits
	// when stdin closes, and the process exits right after runAsk returns.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, "You: ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out, "\nGoodbye!")
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		if err := askOnce(ctx, d, out, errOut, line); err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(out, "\nGoodbye!")
				return nil
			}
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	}
}

func formatArgs(args map[string]any) string {
	parts := make([]string, 0, len(args))
	for _, k := range slices.Sorted(maps.Keys(args)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return strings.Join(parts, ", ")
}

func firstLine(s string) string {
	line, _, cut := strings.Cut(strings.TrimSpace(s), "\n")
	if cut {
		return line + " …"
	}
	return line
}


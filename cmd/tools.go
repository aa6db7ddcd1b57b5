package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tool catalog and the tools the MCP server exposes",
	RunE:  runTools,
}

func runTools(cmd *cobra.Command, _ []string) error {
	cfg, container, err := loadContainer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Catalog:")
	fmt.Fprint(out, container.Dispatcher().Catalog().Render())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if d := cfg.Agents.Defaults.CallTimeout(); d > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, d)
		defer cancelTimeout()
	}

	opener := container.ToolServer()
	session, err := opener.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("open MCP server %s: %w", opener.Server(), err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn("close MCP session", zap.Error(cerr))
		}
	}()

	tools, err := session.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("list tools on %s: %w", session.Name(), err)
	}
	fmt.Fprintf(out, "\nMCP server %q:\n", session.Name())
	for _, t := range tools {
		fmt.Fprintf(out, "- %s: %s\n", t.Signature(), t.Description)
	}
	return nil
}

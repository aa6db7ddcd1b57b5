package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/guardrail/internal/config"
	"github.com/crystaldolphin/guardrail/internal/dependency"
	"github.com/crystaldolphin/guardrail/internal/providers"
	"github.com/crystaldolphin/guardrail/internal/shared/llmutils"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show guardrail status",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	cfgPath := resolvedConfigPath()

	fmt.Fprintf(out, "%s guardrail Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Fprintf(out, "Config:    %s %s\n", cfgPath, cfgMark)

	if err := config.LoadEnv(config.DataDir()); err != nil {
		fmt.Fprintf(out, "  (could not load .env: %v)\n", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(out, "  (could not load config: %v)\n", err)
		return nil
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "  (invalid config: %v)\n", err)
	}

	d := cfg.Agents.Defaults
	matched := llmutils.StringOrDefault(cfg.GetProviderName(d.Model), "none")
	fmt.Fprintf(out, "Model:     %s (provider: %s)\n", d.Model, matched)
	fmt.Fprintf(out, "Retries:   %d, timeout %ds, concurrency %d\n\n", d.MaxRetries, d.CallTimeoutSeconds, d.Concurrency)

	fmt.Fprintln(out, "Contract:")
	if c, err := dependency.NewContract(cfg); err != nil {
		fmt.Fprintf(out, "  (%v)\n\n", err)
	} else {
		for _, line := range strings.Split(strings.TrimRight(c.Describe(), "\n"), "\n") {
			fmt.Fprintf(out, "  %s\n", line)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "MCP servers:")
	active, _, _ := cfg.DispatchServer()
	names := make([]string, 0, len(cfg.Tools.MCPServers))
	for name := range cfg.Tools.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		srv := cfg.Tools.MCPServers[name]
		target := srv.URL
		if srv.Command != "" {
			target = strings.TrimSpace(srv.Command + " " + strings.Join(srv.Args, " "))
		}
		mark := " "
		if name == active {
			mark = "*"
		}
		fmt.Fprintf(out, "  %s %-12s %s\n", mark, name, target)
	}
	fmt.Fprintf(out, "  strict argument checks: %v, declared tools: %d\n\n", cfg.Tools.Strict, len(cfg.Tools.Declared))

	fmt.Fprintln(out, "Providers:")
	for _, spec := range providers.PROVIDERS {
		p := cfg.ProviderByName(spec.Name)
		if p == nil {
			continue
		}
		label := spec.Label()
		switch {
		case spec.IsLocal:
			if p.APIBase != "" {
				fmt.Fprintf(out, "  %-20s ✓ %s\n", label, p.APIBase)
			} else {
				fmt.Fprintf(out, "  %-20s (not set)\n", label)
			}
		case p.APIKey != "":
			fmt.Fprintf(out, "  %-20s ✓\n", label)
		case spec.EnvKey != "" && os.Getenv(spec.EnvKey) != "":
			fmt.Fprintf(out, "  %-20s ✓ (%s)\n", label, spec.EnvKey)
		default:
			fmt.Fprintf(out, "  %-20s (not set)\n", label)
		}
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/guardrail/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration and an example dataset",
	RunE:  runOnboard,
}

const exampleDataset = `# Messages for "guardrail classify --file".
- id: invoice
  text: |
    Hello, I was charged twice for my March invoice. Please refund the
    duplicate payment as soon as possible.
- id: login
  text: |
    Since this morning the app shows "session expired" every time I try to
    log in. I cannot reach my dashboard at all.
- id: address
  text: |
    Could you update the billing address on my account? We moved offices.
`

func runOnboard(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	cfgPath := resolvedConfigPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Config refreshed at %s (existing values kept)\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Created config at %s\n", cfgPath)
	}

	dataPath := filepath.Join(filepath.Dir(cfgPath), "messages.yaml")
	if _, err := os.Stat(dataPath); os.IsNotExist(err) {
		if err := os.WriteFile(dataPath, []byte(exampleDataset), 0o644); err != nil {
			return fmt.Errorf("write example dataset: %w", err)
		}
		fmt.Fprintf(out, "✓ Example messages at %s\n", dataPath)
	}

	fmt.Fprintf(out, "\n%s guardrail is ready!\n\n", logo)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. Add your API key to %s or to a .env file\n", cfgPath)
	fmt.Fprintln(out, "     Get one at: https://openrouter.ai/keys")
	fmt.Fprintln(out, "  2. Classify: guardrail classify -m \"I was charged twice\"")
	fmt.Fprintf(out, "     or:       guardrail classify --file %s\n", dataPath)
	fmt.Fprintln(out, "  3. Ask:      guardrail ask -m \"Any weather alerts in CA?\"")
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/guardrail/internal/classify"
	"github.com/crystaldolphin/guardrail/internal/dataset"
	"github.com/crystaldolphin/guardrail/internal/dependency"
	"github.com/crystaldolphin/guardrail/internal/shared/cmdutils"
)

var (
	classifyMessage string
	classifyFile    string
	classifyRetries int
	classifySchema  bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a customer message into the configured contract",
	Long: `Classify a customer message into a JSON payload that satisfies the configured
contract, repairing invalid model output up to --retries times.

Reads the message from -m, from stdin, or a YAML/JSON list of {id, text} with --file.`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyMessage, "message", "m", "", "Message to classify")
	classifyCmd.Flags().StringVarP(&classifyFile, "file", "f", "", "YAML or JSON list of {id, text} to classify as a batch")
	classifyCmd.Flags().IntVar(&classifyRetries, "retries", -1, "Repair retries per message (default from config)")
	classifyCmd.Flags().BoolVar(&classifySchema, "schema", false, "Print the JSON Schema of the classification output and exit")
}

type batchLine struct {
	ID     string         `json:"id"`
	Result map[string]any `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func runClassify(cmd *cobra.Command, _ []string) error {
	if classifySchema {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c, err := dependency.NewContract(cfg)
		if err != nil {
			return err
		}
		return cmdutils.PrintJSON(cmd.OutOrStdout(), c.JSONSchema())
	}

	cfg, container, err := loadContainer()
	if err != nil {
		return err
	}
	retries := cfg.Agents.Defaults.MaxRetries
	if classifyRetries >= 0 {
		retries = classifyRetries
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	if classifyFile != "" {
		recs, err := dataset.Load(classifyFile)
		if err != nil {
			return err
		}
		items := make([]classify.Item, len(recs))
		for i, r := range recs {
			items[i] = classify.Item{ID: r.ID, Text: r.Text}
		}

		results := classify.Batch(ctx, container.Classifier(), items, retries, cfg.Agents.Defaults.Concurrency)
		lines := make([]batchLine, len(results))
		failed := 0
		for i, r := range results {
			lines[i] = batchLine{ID: r.ID, Result: r.Payload}
			if r.Err != nil {
				lines[i].Error = r.Err.Error()
				failed++
			}
		}
		if err := cmdutils.PrintJSON(out, lines); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d messages failed", failed, len(results))
		}
		return nil
	}

	msg, err := messageOrStdin(cmd, classifyMessage)
	if err != nil {
		return err
	}
	payload, err := container.Classifier().Classify(ctx, msg, retries)
	if err != nil {
		var ex *classify.ExhaustedRetriesError
		if errors.As(err, &ex) {
			return fmt.Errorf("%w (last violation: %s)", err, ex.Last.Kind)
		}
		return err
	}
	return cmdutils.PrintJSON(out, payload)
}

// messageOrStdin returns flag, or all of stdin when flag is empty.
func messageOrStdin(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		return "", errors.New("no message: pass -m, --file or pipe text on stdin")
	}
	return msg, nil
}

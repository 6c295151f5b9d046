package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/internal/workflow"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/log"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/selector"
)

func (a *app) previewCommand() *cobra.Command {
	var selectorFile, resultFile string

	c := &cobra.Command{
		Use:   "preview",
		Short: "Show how a result selector reshapes a sample task result",
		Example: `  sfn-synth preview --selector check.yaml --result result.json`,
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.preview(selectorFile, resultFile)
		},
	}

	flags := c.Flags()
	flags.StringVar(&selectorFile, "selector", "",
		"YAML or JSON file holding the result selector")
	flags.StringVar(&resultFile, "result", "",
		"JSON file holding a sample task result")
	_ = c.MarkFlagRequired("selector")
	_ = c.MarkFlagRequired("result")
	return c
}

func (a *app) preview(selectorFile, resultFile string) error {
	sel, err := loadSelector(selectorFile)
	if err != nil {
		return err
	}
	if err := selector.Validate(sel); err != nil {
		return fmt.Errorf("%s: %w", selectorFile, err)
	}

	data, err := os.ReadFile(resultFile)
	if err != nil {
		return err
	}
	raw, err := selector.ParseResult(data)
	if err != nil {
		return fmt.Errorf("%s: %w", resultFile, err)
	}

	res, err := selector.Apply(sel, raw)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(a.streams.Out, string(out)); err != nil {
		return err
	}

	a.logger.Debug("Selector applied", log.Path(selectorFile))
	return nil
}

func loadSelector(path string) (api.Selector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sel map[string]any
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return api.Selector(workflow.NormalizeObject(sel)), nil
}

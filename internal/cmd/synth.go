package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"gocloud.dev/blob"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/internal/output"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/internal/workflow"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/log"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

const stdoutDestination = "stdout"

func (a *app) synthCommand() *cobra.Command {
	var (
		out       string
		key       string
		partition string
		indent    bool
	)

	c := &cobra.Command{
		Use:   "synth FILE",
		Short: "Synthesize a workflow document into an ASL definition",
		Example: `  sfn-synth synth orchestrator.yaml
  sfn-synth synth --indent --partition aws-us-gov orchestrator.yaml
  sfn-synth synth --out s3://my-bucket?region=us-east-1 orchestrator.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			flags := c.Flags()
			if flags.Changed("out") {
				a.cfg.OutputURL = out
			}
			if flags.Changed("partition") {
				a.cfg.Partition = partition
			}
			if flags.Changed("indent") {
				a.cfg.Indent = indent
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.synth(c.Context(), args[0], key)
		},
	}

	flags := c.Flags()
	flags.StringVar(&out, "out", "",
		"bucket URL to write the definition to (default stdout)")
	flags.StringVar(&key, "key", "",
		"object name in the bucket (default <file>.asl.json)")
	flags.StringVar(&partition, "partition", "",
		"AWS partition for resource ARNs")
	flags.BoolVar(&indent, "indent", false, "indent the definition")
	return c
}

func (a *app) synth(ctx context.Context, file, key string) error {
	def, err := workflow.LoadFile(file, workflow.Options{
		Partition: a.cfg.Partition,
	})
	if err != nil {
		return err
	}

	data, err := def.ToJSON(a.cfg.Indent)
	if err != nil {
		return err
	}

	if key == "" {
		key = output.KeyFor(file)
	}

	dest := stdoutDestination
	var w *output.Writer
	if a.cfg.OutputURL == "" {
		w, err = output.NewStreamWriter(a.streams.Out)
		if err != nil {
			return err
		}
	} else {
		bucket, err := blob.OpenBucket(ctx, a.cfg.OutputURL)
		if err != nil {
			return err
		}
		defer func() { _ = bucket.Close() }()

		w, err = output.NewBucketWriter(bucket, a.cfg.OutputPrefix)
		if err != nil {
			return err
		}
		dest = a.cfg.OutputURL + " " + output.BuildKey(a.cfg.OutputPrefix, key)
	}

	if err := w.Write(ctx, key, data); err != nil {
		return err
	}

	a.logger.Info("Definition synthesized",
		log.Path(file),
		log.Partition(a.cfg.Partition),
		slog.Int("states", len(def.States())),
		log.Destination(dest))
	return nil
}

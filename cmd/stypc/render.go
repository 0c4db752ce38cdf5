package main

import (
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/stypro"
	"github.com/npillmayer/stypro/cssom"
	"github.com/npillmayer/stypro/cssom/douceuradapter"
	"github.com/npillmayer/stypro/cssom/htmladapter"
	"github.com/npillmayer/stypro/producer"
	"github.com/npillmayer/stypro/rules"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newRenderCmd(s *settings) *cobra.Command {
	var tree bool
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a YAML rule tree",
		Long: "Render reads a tree of style rules from a YAML file (or from stdin,\n" +
			"if no file or '-' is given) and writes the resulting style sheet.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for key, flag := range map[string]string{
				cfgKeyFormat:       "format",
				cfgKeyRootSelector: "root-selector",
				cfgKeyUnits:        "units",
			} {
				if err := s.conf.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			root, err := rules.LoadYAML(in)
			if err != nil {
				return err
			}
			if tree {
				fmt.Fprintln(cmd.OutOrStdout(), root.Dump())
				return nil
			}
			return render(cmd.OutOrStdout(), root, s.conf.GetString(cfgKeyFormat),
				s.conf.GetString(cfgKeyRootSelector), s.conf.GetString(cfgKeyUnits))
		},
	}
	cmd.Flags().String("format", "css", "output format: css or html")
	cmd.Flags().String("root-selector", "body", "selector for properties of the root rule")
	cmd.Flags().String("units", "css", "length units: css (as given) or pt (absolute lengths in points)")
	cmd.Flags().BoolVar(&tree, "tree", false, "print the rule tree instead of rendering it")
	return cmd
}

// render produces the styles of a rule tree into a fresh style sheet of the
// requested format and writes it to w.
func render(w io.Writer, root *rules.Rule, format, rootSelector, units string) error {
	var renderer producer.Renderer
	switch units {
	case "css":
		renderer = producer.DefaultRenderers
	case "pt":
		renderer = producer.Renderers{producer.DefaultRenderers, producer.PointsRenderer}
	default:
		return fmt.Errorf("unknown length units %q", units)
	}
	var target cssom.StyleSheet
	var write func() error
	switch format {
	case "css":
		sheet := douceuradapter.New()
		target = sheet
		write = func() error {
			_, err := fmt.Fprintln(w, sheet.String())
			return err
		}
	case "html":
		doc := htmladapter.New()
		target = doc
		write = func() error {
			return doc.Render(w)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	var errs error
	interest := producer.Produce(root.Rules(), producer.Options{
		Target:       target,
		RootSelector: rootSelector,
		Renderer:     renderer,
		OnError: func(rule stypro.Rule, err error) {
			errs = multierr.Append(errs, fmt.Errorf("rule %v: %w", rule, err))
		},
	})
	if errs != nil {
		return errs
	}
	err := write()
	return multierr.Append(err, interest.Off())
}

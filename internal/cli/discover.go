package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/reglet-dev/reglet-ext/application/discovery"
	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/errors"
	"github.com/reglet-dev/reglet-ext/host"
	loader "github.com/reglet-dev/reglet-ext/infrastructure/wazero"
	"github.com/spf13/cobra"
)

func newDiscoverCommand(a *app) *cobra.Command {
	var (
		asJSON bool
		start  bool
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List the startup extensions declared under the host root",
		Long: `Read <root>/bin/<manifest>, resolve every declared extension and print the
ones that loaded, followed by the ones that were skipped and why.
With --start, each loaded extension's startup export is also called.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			dopts, err := a.config.DiscoveryOptions(loader.BuiltinModuleNames()...)
			if err != nil {
				return err
			}
			exec, err := host.NewExecutor(ctx,
				host.WithFs(a.fs),
				host.WithLogger(a.logger),
				host.WithDiscoveryOptions(dopts...),
			)
			if err != nil {
				return err
			}
			defer func() {
				_ = exec.Close(ctx)
			}()

			res, err := exec.Discover(ctx, a.config.Root)
			if err != nil {
				return fmt.Errorf("discovering extensions: %w", err)
			}

			out := newDiscoverOutput(res)
			if asJSON {
				err = writeJSON(cmd.OutOrStdout(), out)
			} else {
				err = writeTable(cmd.OutOrStdout(), out)
			}
			if err != nil {
				return err
			}

			if start {
				return exec.Start(ctx, res)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&start, "start", false, "Call each discovered extension's startup export")
	return cmd
}

// discoverOutput is the printable form of a discovery result.
type discoverOutput struct {
	Manifest      string                      `json:"manifest"`
	ManifestError string                      `json:"manifestError,omitempty"`
	Extensions    []extensionOutput           `json:"extensions"`
	Skipped       []entities.SkippedExtension `json:"skipped"`
}

type extensionOutput struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Module string `json:"module"`
	Path   string `json:"path"`
	Digest string `json:"digest"`
}

func newDiscoverOutput(res *discovery.Result) discoverOutput {
	out := discoverOutput{
		Manifest:   res.ManifestPath,
		Extensions: make([]extensionOutput, 0, len(res.Extensions)),
		Skipped:    res.Skipped,
	}
	if out.Skipped == nil {
		out.Skipped = []entities.SkippedExtension{}
	}
	// A missing manifest is the normal "no extensions" case.
	if res.ManifestErr != nil && errors.KindOf(res.ManifestErr) != errors.KindManifestMissing {
		out.ManifestError = res.ManifestErr.Error()
	}
	for _, ext := range res.Extensions {
		out.Extensions = append(out.Extensions, extensionOutput{
			Name:   ext.Reference.DisplayName(),
			Type:   ext.Type.FullName,
			Module: ext.Type.Module,
			Path:   ext.Module.Path(),
			Digest: ext.Module.Digest(),
		})
	}
	return out
}

func writeJSON(w io.Writer, out discoverOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeTable(w io.Writer, out discoverOutput) error {
	if out.ManifestError != "" {
		fmt.Fprintf(w, "Manifest error: %s\n", out.ManifestError)
	}
	if len(out.Extensions) == 0 {
		fmt.Fprintf(w, "No startup extensions in %s.\n", out.Manifest)
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTYPE\tMODULE\tPATH")
		for _, e := range out.Extensions {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Type, e.Module, e.Path)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(out.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped %d:\n", len(out.Skipped))
		for _, s := range out.Skipped {
			fmt.Fprintf(w, "  %s\n", s.Detail.Message)
		}
	}
	return nil
}

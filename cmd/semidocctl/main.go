// Command semidocctl is a small CLI driving the build -> compact ->
// iterate -> query pipeline end to end, for manual smoke testing of the
// container format against real input instead of only unit tests.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/binpack/semidoc"
	"github.com/binpack/semidoc/ginindex"
	"github.com/binpack/semidoc/gistsig"
	"github.com/binpack/semidoc/numeric"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "semidocctl:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "semidocctl",
		Short:         "Build, inspect and query semidoc containers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newBuildCmd(),
		newTextCmd(),
		newGetCmd(),
		newContainsCmd(),
		newTokensCmd(),
		newSignCmd(),
	)
	return root
}

// readAllStdin is shared by every subcommand that takes its input as a
// pipe, matching the Unix-filter shape the rest of the command set uses.
func readAllStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Lex, parse and compact a JSON document read from stdin into a packed container on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readAllStdin()
			if err != nil {
				return err
			}
			toks, err := lex(src)
			if err != nil {
				return err
			}
			v, err := semidoc.Parse(toks)
			if err != nil {
				return err
			}
			c, err := semidoc.Compact(v)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(c)
			return err
		},
	}
}

func newTextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text",
		Short: "Render a packed container read from stdin back to JSON text on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readAllStdin()
			if err != nil {
				return err
			}
			buf, err := semidoc.AppendText(nil, semidoc.Container(raw))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(buf))
			return nil
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Look up a top-level object key in a packed container read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readAllStdin()
			if err != nil {
				return err
			}
			c := semidoc.Container(raw)
			found, ok := semidoc.FindKey(c, []byte(args[0]))
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}
			return printValue(cmd.OutOrStdout(), found)
		},
	}
}

// printValue renders a Value found by FindKey: scalars print directly,
// and a nested composite (returned as KindBinary, an already-packed
// subtree) is rewrapped as a Container and rendered through AppendText.
func printValue(w io.Writer, v semidoc.Value) error {
	switch v.Kind {
	case semidoc.KindNull:
		fmt.Fprintln(w, "null")
		return nil
	case semidoc.KindBool:
		fmt.Fprintln(w, v.Bool)
		return nil
	case semidoc.KindNumeric:
		fmt.Fprintln(w, string(v.Numeric))
		return nil
	case semidoc.KindString:
		fmt.Fprintln(w, string(v.Str))
		return nil
	case semidoc.KindBinary:
		buf, err := semidoc.AppendText(nil, semidoc.Container(v.Bin))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(buf))
		return nil
	default:
		return fmt.Errorf("semidocctl: unexpected top-level value kind %v", v.Kind)
	}
}

func newContainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contains <container-file> <containee-file>",
		Short: "Report whether the first packed container deep-contains the second",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			containee, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			ok, err := semidoc.DeepContains(semidoc.Container(container), semidoc.Container(containee), numeric.New())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "Extract GIN index tokens from a packed container read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readAllStdin()
			if err != nil {
				return err
			}
			toks := ginindex.Extract(semidoc.Container(raw))
			lines := make([]string, len(toks))
			for i, t := range toks {
				lines[i] = fmt.Sprintf("%q", t)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return nil
		},
	}
}

func newSignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign",
		Short: "Build a GiST bounding-box signature from a packed container read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readAllStdin()
			if err != nil {
				return err
			}
			c := semidoc.Container(raw)
			hashes := ginindex.ExtractHashed(c)
			sig := gistsig.Compress(hashes)
			// A signature must always be consistent with itself under
			// Contains: a quick sanity check that Compress produced
			// something Consistent can actually evaluate.
			ok, err := gistsig.Consistent(sig, sig, gistsig.Contains, gistsig.MetricCosine, 0)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "leaves=%d self-consistent=%v\n", len(hashes), ok)
			return nil
		},
	}
}

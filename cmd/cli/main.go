// Command bizatlas is an offline companion to the HTTP API: it validates and
// compiles filter documents from JSON or YAML files without touching an
// engine or a history store.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"bizatlas/internal/compiler"
	"bizatlas/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bizatlas",
		Short:         "Compile business-intelligence filter documents into query plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newValidateCmd(), newCompileCmd(), newCostCmd())
	return root
}

// compilerFlags registers the shared compiler tuning flags on a flag set.
func compilerFlags(fs *pflag.FlagSet) {
	fs.Bool("strict", false, "reject unknown operators instead of emitting a gap")
	fs.Bool("canonical", false, "sort metrics and layers before hashing the cache key")
}

// compilerFromFlags builds a compiler honoring the shared flags.
func compilerFromFlags(fs *pflag.FlagSet) *compiler.Compiler {
	var opts []compiler.Option
	if strict, _ := fs.GetBool("strict"); strict {
		opts = append(opts, compiler.WithStrictOperators())
	}
	if canonical, _ := fs.GetBool("canonical"); canonical {
		opts = append(opts, compiler.WithCanonicalCacheKeys())
	}
	return compiler.New(opts...)
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a filter document for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dsl, err := loadDSL(args[0])
			if err != nil {
				return err
			}

			result := compilerFromFlags(cmd.Flags()).Validate(dsl)
			if err := printJSON(cmd, result); err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("document is invalid (%d problems)", len(result.Errors))
			}
			return nil
		},
	}
	compilerFlags(cmd.Flags())
	return cmd
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a filter document into a query plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dsl, err := loadDSL(args[0])
			if err != nil {
				return err
			}

			c := compilerFromFlags(cmd.Flags())
			if result := c.Validate(dsl); !result.Valid {
				return fmt.Errorf("document is invalid: %s", strings.Join(result.Errors, "; "))
			}
			return printJSON(cmd, c.Compile(dsl))
		},
	}
	compilerFlags(cmd.Flags())
	return cmd
}

func newCostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost <file>",
		Short: "Print the estimated cost of a filter document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dsl, err := loadDSL(args[0])
			if err != nil {
				return err
			}

			c := compilerFromFlags(cmd.Flags())
			if result := c.Validate(dsl); !result.Valid {
				return fmt.Errorf("document is invalid: %s", strings.Join(result.Errors, "; "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", c.Compile(dsl).EstimatedCost)
			return nil
		},
	}
	compilerFlags(cmd.Flags())
	return cmd
}

// loadDSL reads a filter document from a JSON or YAML file. YAML documents
// are round-tripped through JSON so both formats decode identically.
func loadDSL(path string) (domain.FilterDSL, error) {
	var dsl domain.FilterDSL

	raw, err := os.ReadFile(path)
	if err != nil {
		return dsl, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return dsl, fmt.Errorf("parse %s: %w", path, err)
		}
		raw, err = json.Marshal(doc)
		if err != nil {
			return dsl, fmt.Errorf("convert %s: %w", path, err)
		}
	}

	if err := json.Unmarshal(raw, &dsl); err != nil {
		return dsl, fmt.Errorf("parse %s: %w", path, err)
	}
	return dsl, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

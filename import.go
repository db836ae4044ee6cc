package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/myorganisms/internal/importer"
	"github.com/pstuifzand/myorganisms/internal/storage"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

var (
	importFormat   string
	importRoot     string
	importProject  string
	importOverride bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "import <input> [output]",
		Short: "Convert a taxonomy into the JSON document myorgs reads",
		Long: `The import command reads an indented text, YAML or JSON taxonomy and
writes it as a taxonomy document. Without an output file the configured
taxonomy path is used.

In indented text every level is two spaces deeper and a trailing "*" marks
a reference strain.

Example:
  myorgs import organisms.txt
  myorgs import tree.yaml taxonomy.json
  myorgs import site.json --root '$.record.tree'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args)
		},
	}
	cmd.Flags().StringVar(&importFormat, "format", string(importer.FormatAuto), "Input format: indented, yaml, json or auto")
	cmd.Flags().StringVar(&importRoot, "root", "", "JSONPath of the tree inside a JSON input")
	cmd.Flags().StringVar(&importProject, "project", "", "Project id stored in the document")
	cmd.Flags().BoolVarP(&importOverride, "force", "f", false, "Overwrite an existing output file")
	rootCmd.AddCommand(cmd)
}

func runImport(args []string) error {
	input := args[0]
	content, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	doc, err := importer.Import(content, input, importer.Options{
		Format:   importer.Format(strings.ToLower(importFormat)),
		RootPath: importRoot,
	})
	if err != nil {
		return err
	}
	if importProject != "" {
		doc.ProjectID = importProject
	}

	output := ""
	if len(args) > 1 {
		output = args[1]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		output = cfg.TaxonomyPath
	}

	store := storage.NewTaxonomyStore(output, "")
	if store.FileExists() && !importOverride {
		return fmt.Errorf("%s already exists, use --force to overwrite", output)
	}
	if err := store.Save(doc); err != nil {
		return err
	}

	fmt.Printf("Imported %d organisms (%d reference strains)\n", taxonomy.LeafCount(doc.Tree), len(doc.ReferenceStrains))
	fmt.Printf("Saved to: %s\n", output)
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	coreservices "github.com/custodia-labs/docchat/internal/core/services"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage input documents",
	Long:  `List the files in the documents and images directories, or process one of them.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List input documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentProcessCmd = &cobra.Command{
	Use:   "process [name]",
	Short: "Run OCR on a document and extract fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentProcess,
}

var ocrCmd = &cobra.Command{
	Use:   "ocr [name]",
	Short: "Recognise text in a document or image",
	Long: `Resolve name in the documents directory (PDFs) or the images directory
(everything else), run OCR, print the first regions and the extracted
fields. With --visualize, the regions are drawn onto a PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: runOCR,
}

var (
	ocrVisualize bool
	ocrOutput    string
)

func init() {
	ocrCmd.Flags().BoolVar(&ocrVisualize, "visualize", false, "Write an annotated PNG of the recognised regions")
	ocrCmd.Flags().StringVarP(&ocrOutput, "output", "o", "", "Visualization file (default ocr_<name>.png)")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentProcessCmd)
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(ocrCmd)
}

func documentService(cmd *cobra.Command) (driving.DocumentService, error) {
	s, err := requireServices()
	if err != nil {
		return nil, err
	}
	if s.NewDocuments == nil {
		return nil, errors.New("document service not configured")
	}
	return s.NewDocuments(cmd.OutOrStdout()), nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	docs, err := documentService(cmd)
	if err != nil {
		return err
	}

	files, err := docs.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(files) == 0 {
		cmd.Println("No documents found")
		return nil
	}

	for _, f := range files {
		cmd.Printf("  %s\n", f.Name)
		cmd.Printf("    Path: %s\n", f.Path)
		cmd.Printf("    Kind: %s\n", f.Kind)
		if f.Pages > 0 {
			cmd.Printf("    Pages: %d\n", f.Pages)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(files))
	return nil
}

func runDocumentProcess(cmd *cobra.Command, args []string) error {
	docs, err := documentService(cmd)
	if err != nil {
		return err
	}

	path := docs.ResolvePath(args[0])
	fields, err := docs.ProcessDocument(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to process document: %w", err)
	}

	printFields(cmd, fields)
	return nil
}

func runOCR(cmd *cobra.Command, args []string) error {
	docs, err := documentService(cmd)
	if err != nil {
		return err
	}

	opts := driving.OCROptions{Visualize: ocrVisualize, OutputPath: ocrOutput}
	if opts.Visualize && opts.OutputPath == "" {
		opts.OutputPath = coreservices.OCROutputName(filepath.Base(args[0]))
	}

	path := docs.ResolvePath(args[0])
	regions, err := docs.PerformOCR(cmd.Context(), path, opts)
	if err != nil {
		return err
	}

	printFields(cmd, docs.ExtractStructuredData(domain.RegionTexts(regions)))
	return nil
}

func printFields(cmd *cobra.Command, fields []domain.Field) {
	cmd.Println("\nExtracted fields:")
	for _, f := range fields {
		cmd.Printf("  %s\n", f)
	}
}

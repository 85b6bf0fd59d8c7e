package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/extratoapp/statement-importer/internal/api"
	"github.com/extratoapp/statement-importer/internal/config"
	"github.com/extratoapp/statement-importer/internal/extractor"
	"github.com/extratoapp/statement-importer/internal/logger"
	"github.com/extratoapp/statement-importer/internal/models"
	"github.com/extratoapp/statement-importer/internal/parser"
	"github.com/extratoapp/statement-importer/internal/writer"
)

const version = "1.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "statement-importer",
		Short: "Converte extratos e faturas em PDF para transações estruturadas",
		Long: `statement-importer reconstrói transações financeiras a partir de
faturas de cartão de crédito e extratos de carteira em PDF, usando apenas
os fragmentos de texto extraídos de cada página.`,
		SilenceUsage: true,
	}
	root.AddCommand(newConvertCmd(), newServeCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostra a versão",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "statement-importer v%s\n", version)
		},
	}
}

func newConvertCmd() *cobra.Command {
	var (
		typeFlag   string
		outputFlag string
		formatFlag string
		headerFlag bool
	)

	cmd := &cobra.Command{
		Use:   "convert <arquivo.pdf> [arquivo2.pdf ...]",
		Short: "Converte PDFs de extrato/fatura para CSV ou JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 && outputFlag != "" {
				return fmt.Errorf("--output only applies to a single input file")
			}
			for _, path := range args {
				if err := convertFile(cmd, path, typeFlag, outputFlag, formatFlag, headerFlag); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", "", "Statement type: credit_card or wallet (auto-detected if omitted)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path (defaults to input filename with new extension)")
	cmd.Flags().StringVar(&formatFlag, "format", "csv", "Output format: csv or json")
	cmd.Flags().BoolVar(&headerFlag, "header", true, "Include metadata header rows in CSV")
	return cmd
}

func convertFile(cmd *cobra.Command, inputPath, typeFlag, outputPath, format string, includeHeader bool) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found")
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}
	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown format %q; use csv or json", format)
	}

	fmt.Fprintf(out, "Processing: %s\n", inputPath)

	doc, err := extractor.ExtractTokens(inputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  Extracted tokens from %d page(s)\n", doc.PageCount())

	statementType, err := resolveStatementType(typeFlag, doc)
	if err != nil {
		return err
	}

	p, err := parser.New(statementType)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  Using parser: %s\n", p.Name())

	result := p.Parse(doc)
	fmt.Fprintf(out, "  Found %d transaction(s)\n", len(result.Transactions))
	for _, msg := range result.Errors {
		fmt.Fprintf(out, "  Error: %s\n", msg)
	}
	if len(result.Transactions) == 0 && len(result.Errors) == 0 {
		fmt.Fprintln(out, "  Warning: no transactions found. The PDF layout may not match the expected statement format.")
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + format
	}

	switch format {
	case "json":
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file %q: %w", outPath, err)
		}
		defer f.Close()
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("JSON write failed: %w", err)
		}
	default:
		w := &writer.CSVWriter{IncludeHeader: includeHeader}
		if err := w.WriteToFile(outPath, result); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
	}

	fmt.Fprintf(out, "  Output: %s\n", outPath)
	return nil
}

func resolveStatementType(typeFlag string, doc parser.Document) (models.StatementType, error) {
	switch strings.ToLower(typeFlag) {
	case "":
		return parser.AutoDetect(doc)
	case "credit_card", "credit", "fatura":
		return models.StatementCreditCard, nil
	case "wallet", "extrato":
		return models.StatementWallet, nil
	default:
		return "", fmt.Errorf("unknown statement type %q; use credit_card or wallet", typeFlag)
	}
}

func newServeCmd() *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sobe a API HTTP de importação",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addrFlag != "" {
				cfg.Addr = addrFlag
			}

			log, err := logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			app := fiber.New(fiber.Config{
				AppName:   "statement-importer",
				BodyLimit: cfg.MaxUploadMB << 20,
			})
			app.Use(recover.New())

			api.NewHandler(log).Register(app)
			if cfg.StaticDir != "" {
				app.Static("/", cfg.StaticDir)
			}

			log.Info("server listening",
				zap.String("addr", cfg.Addr),
				zap.String("version", version),
			)
			return app.Listen(cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (overrides config)")
	return cmd
}

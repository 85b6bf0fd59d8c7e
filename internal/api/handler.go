package api

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/extratoapp/statement-importer/internal/extractor"
	"github.com/extratoapp/statement-importer/internal/models"
	"github.com/extratoapp/statement-importer/internal/parser"
	"github.com/extratoapp/statement-importer/internal/writer"
)

// Version reported by the API.
const Version = "1.1.0"

// ImportResponse is the JSON response from the /api/import endpoint.
type ImportResponse struct {
	Success      bool                       `json:"success"`
	Error        string                     `json:"error,omitempty"`
	Type         string                     `json:"type,omitempty"`
	Transactions []models.ParsedTransaction `json:"transactions"`
	Errors       []string                   `json:"errors"`
	Count        int                        `json:"count"`
	TotalExpense float64                    `json:"totalExpense"`
	TotalIncome  float64                    `json:"totalIncome"`
	CSV          string                     `json:"csv,omitempty"`
	Version      string                     `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	log *zap.Logger
}

func NewHandler(log *zap.Logger) *Handler {
	return &Handler{log: log}
}

// Register sets up the API routes.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/import", h.HandleImport)
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// HandleImport accepts a multipart PDF upload (form field "file"), an
// optional "type" form value (credit_card or wallet, auto-detected when
// absent) and an optional "header" toggle for the CSV metadata rows.
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return h.fail(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	tmpFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return h.fail(c, fiber.StatusInternalServerError, "Failed to create temp file.")
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return h.fail(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	doc, err := extractor.ExtractTokens(tmpPath)
	if err != nil {
		return h.fail(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
	}

	statementType, err := resolveType(c.FormValue("type"), doc)
	if err != nil {
		return h.fail(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	p, err := parser.New(statementType)
	if err != nil {
		return h.fail(c, fiber.StatusInternalServerError, err.Error())
	}
	result := p.Parse(doc)

	h.log.Info("statement imported",
		zap.String("file", fileHeader.Filename),
		zap.String("type", string(statementType)),
		zap.Int("pages", doc.PageCount()),
		zap.Int("transactions", len(result.Transactions)),
		zap.Int("errors", len(result.Errors)),
	)

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
	if err := csvWriter.Write(&csvBuf, result); err != nil {
		return h.fail(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	var totalExpense, totalIncome float64
	for _, txn := range result.Transactions {
		if txn.Type == models.TypeExpense {
			totalExpense += txn.Amount
		} else {
			totalIncome += txn.Amount
		}
	}

	return c.JSON(ImportResponse{
		Success:      true,
		Type:         string(statementType),
		Transactions: result.Transactions,
		Errors:       result.Errors,
		Count:        len(result.Transactions),
		TotalExpense: totalExpense,
		TotalIncome:  totalIncome,
		CSV:          csvBuf.String(),
		Version:      Version,
	})
}

func resolveType(param string, doc parser.Document) (models.StatementType, error) {
	switch strings.ToLower(strings.TrimSpace(param)) {
	case "":
		return parser.AutoDetect(doc)
	case "credit_card", "credit", "fatura":
		return models.StatementCreditCard, nil
	case "wallet", "extrato":
		return models.StatementWallet, nil
	default:
		return "", fmt.Errorf("unknown statement type %q; use credit_card or wallet", param)
	}
}

func (h *Handler) fail(c *fiber.Ctx, status int, msg string) error {
	h.log.Warn("import rejected", zap.Int("status", status), zap.String("reason", msg))
	return c.Status(status).JSON(ImportResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.ParsedTransaction{},
		Errors:       []string{},
	})
}

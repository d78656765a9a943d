package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"padoca/internal/models"
)

// PDFService renders the order summary document and stores it in object
// storage. Order creation depends on it succeeding: an order without its
// document is not allowed to exist.
type PDFService interface {
	GenerateOrderPDF(ctx context.Context, order *models.Order, client *models.Client, products map[int64]*models.Product) (path string, url string, err error)
}

type pdfService struct {
	storage   StorageService
	bucket    string
	urlExpiry time.Duration
}

func NewPDFService(storage StorageService, bucket string) PDFService {
	return &pdfService{
		storage:   storage,
		bucket:    bucket,
		urlExpiry: 7 * 24 * time.Hour,
	}
}

func (s *pdfService) GenerateOrderPDF(ctx context.Context, order *models.Order, client *models.Client, products map[int64]*models.Product) (string, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "PEDIDO - PADOCA")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Pedido: %d", order.ID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Data: %s", order.CreatedAt.Format("02/01/2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "CLIENTE:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, client.Name)
	pdf.Ln(6)
	pdf.Cell(0, 6, client.Email)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	headers := []string{"Produto", "Qtd", "Preco Unit.", "Subtotal"}
	colWidths := []float64{80, 20, 35, 35}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)
	for _, item := range order.Items {
		name := fmt.Sprintf("produto %d", item.ProductID)
		unit := ""
		if product, ok := products[item.ProductID]; ok {
			name = product.Name
			unit = product.MeasureUnit
		}
		pdf.CellFormat(colWidths[0], 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%g %s", item.Quantity, unit), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, fmt.Sprintf("%.2f", item.Subtotal), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(135, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("R$ %.2f", order.TotalValue), "", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", "", fmt.Errorf("failed to render order pdf: %w", err)
	}

	objectName := fmt.Sprintf("orders/%d/%s.pdf", order.ID, uuid.New().String())
	err := s.storage.UploadObject(ctx, s.bucket, objectName, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "application/pdf")
	if err != nil {
		return "", "", fmt.Errorf("failed to upload order pdf: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.bucket, objectName, s.urlExpiry)
	if err != nil {
		return "", "", fmt.Errorf("failed to presign order pdf url: %w", err)
	}
	return objectName, url, nil
}

package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/safasahar/backend/internal/config"
	"github.com/safasahar/backend/internal/models"
	qrcode "github.com/skip2/go-qrcode"
)

type ReceiptService struct {
	cfg *config.Config
}

func NewReceiptService(cfg *config.Config) *ReceiptService { return &ReceiptService{cfg: cfg} }

// GenerateInvoiceReceiptPDF generates a simple A4 PDF for an invoice with
// a QR code carrying the transaction reference, so staff at the drop-off
// point can look the payment up quickly.
func (s *ReceiptService) GenerateInvoiceReceiptPDF(invoice *models.Invoice) ([]byte, error) {
	lookupURL := fmt.Sprintf("%s/invoices/%s?txn=%s", s.cfg.FrontendURL, invoice.ID, invoice.TransactionUUID)

	// Create QR PNG in memory
	var qrBuf bytes.Buffer
	png, err := qrcode.Encode(lookupURL, qrcode.Medium, 512)
	if err != nil {
		return nil, err
	}
	qrBuf.Write(png)

	// Create PDF
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Waste Collection Invoice")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 6, fmt.Sprintf(
		"Invoice: %s\nRequested by: %s\nPickup address: %s\nWeight: %s kg\nRate: %s per kg\nAmount: %s\nStatus: %s\nTransaction: %s",
		invoice.ID,
		invoice.SpecialRequest.Name,
		invoice.SpecialRequest.Address,
		invoice.WeightKg.StringFixed(2),
		invoice.PerKgRate.StringFixed(2),
		invoice.Amount.StringFixed(2),
		invoice.Status,
		invoice.TransactionUUID,
	), "", "L", false)

	// Register image from reader
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(qrBuf.Bytes()))

	// Center QR on the page
	x := (210.0 - 100.0) / 2.0 // A4 width 210mm, QR size 100mm
	y := pdf.GetY() + 10
	pdf.ImageOptions("qr", x, y, 100, 100, false, opt, 0, "")

	// Output to buffer
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

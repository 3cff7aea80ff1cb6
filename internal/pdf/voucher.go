package pdf

import (
	"fmt"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/Godwinki/oya-backend/internal/domain/expense"
)

// VoucherRenderer writes a payment voucher for one expense request. The
// workflow core only knows this interface; rendering stays a collaborator.
type VoucherRenderer interface {
	RenderVoucher(w io.Writer, req *expense.Request) error
}

// FPDFRenderer produces a single-page A4 voucher.
type FPDFRenderer struct{}

func NewFPDFRenderer() *FPDFRenderer { return &FPDFRenderer{} }

func (r *FPDFRenderer) RenderVoucher(w io.Writer, req *expense.Request) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 20, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, "Expense Voucher", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, fmt.Sprintf("Request %s", req.RequestNumber), "", 1, "C", false, 0, "")
	doc.Ln(4)

	field := func(label, value string) {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 7, value, "", "L", false)
	}

	field("Title", req.Title)
	field("Purpose", req.Purpose)
	field("Status", string(req.Status))
	field("Fiscal year", fmt.Sprintf("%d", req.FiscalYear))
	field("Estimated total", fmt.Sprintf("%.2f", req.TotalEstimatedAmount))
	if req.ProcessedDate != nil {
		field("Processed", req.ProcessedDate.Format(time.RFC3339))
		field("Transaction", req.TransactionDetails)
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(80, 7, "Item", "1", 0, "L", false, 0, "")
	doc.CellFormat(20, 7, "Qty", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 7, "Unit price", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 7, "Estimated", "1", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	for _, it := range req.Items {
		doc.CellFormat(80, 7, it.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(20, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 7, fmt.Sprintf("%.2f", it.UnitPrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 7, fmt.Sprintf("%.2f", it.EstimatedAmount), "1", 1, "R", false, 0, "")
	}

	return doc.Output(w)
}

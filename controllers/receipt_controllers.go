package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

type ReceiptController struct {
	DB *gorm.DB
	// Header is printed at the top of PDF receipts.
	Header string
}

func NewReceiptController(db *gorm.DB) *ReceiptController {
	return &ReceiptController{DB: db, Header: "Restaurant"}
}

// issueReceipt snapshots a closed order. order must have Items.Product loaded.
func issueReceipt(tx *gorm.DB, order models.Order, carrier models.Table, tables int, issuer uint) (models.Receipt, error) {
	closed := time.Now()
	if order.ClosedAt != nil {
		closed = *order.ClosedAt
	}
	receipt := models.Receipt{
		OrderID:       order.ID,
		ReceiptNumber: fmt.Sprintf("RCP/%s/%06d", closed.Format("20060102"), order.ID),
		TableName:     carrier.Name,
		Tables:        tables,
		Total:         order.Total,
		IssuedBy:      issuer,
		Items:         make([]models.ReceiptItem, 0, len(order.Items)),
	}
	for _, it := range order.Items {
		receipt.Items = append(receipt.Items, models.ReceiptItem{
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
			Subtotal:    it.Price * float64(it.Quantity),
			Notes:       it.Notes,
		})
	}
	return receipt, tx.Create(&receipt).Error
}

// GetReceipt -> receipt of a closed order. ?format=pdf renders it as a PDF.
func (rc *ReceiptController) GetReceipt(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	var receipt models.Receipt
	if err := rc.DB.Preload("Items").Where("order_id = ?", id).First(&receipt).Error; err != nil {
		respondDBError(c, err)
		return
	}

	if c.Query("format") != "pdf" {
		utils.RespondJSON(c, http.StatusOK, "Receipt detail", receipt)
		return
	}

	buf, err := rc.renderPDF(receipt)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("receipt", receipt.ReceiptNumber).Error("render receipt")
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="receipt-%06d.pdf"`, receipt.OrderID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (rc *ReceiptController) renderPDF(r models.Receipt) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle(r.ReceiptNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, rc.Header, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, r.ReceiptNumber, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%s - %s", r.TableName, r.CreatedAt.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(70, 6, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(15, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(43, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range r.Items {
		pdf.CellFormat(70, 6, it.ProductName, "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(43, 6, utils.FormatAmount(it.Subtotal), "", 1, "R", false, 0, "")
		if it.Notes != "" {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(0, 4, "  "+it.Notes, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
		}
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(85, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(43, 8, utils.FormatAmount(r.Total), "T", 1, "R", false, 0, "")

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

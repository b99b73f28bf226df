package orderControllers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/OwaisShaikh-8/Instant-Meal/auth"
	"github.com/OwaisShaikh-8/Instant-Meal/controllers/respond"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

var exportHeaders = []string{
	"Order ID", "Placed At", "Customer", "Type", "Status",
	"Items", "Total Items", "Subtotal", "Delivery Fee", "Tax", "Total",
	"Delivery Address", "Arrival Time", "Special Instructions", "Payment Screenshot",
}

func itemSummary(items []models.OrderItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%d x %s", it.Quantity, it.Name)
	}
	return strings.Join(parts, ", ")
}

// WriteOrdersWorkbook writes orders as a one-sheet xlsx file.
func WriteOrdersWorkbook(w io.Writer, orders []models.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()

		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(o.CustomerName)
		row.AddCell().SetValue(string(o.OrderType))
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(itemSummary(o.Items))
		row.AddCell().SetValue(o.TotalItems)
		row.AddCell().SetValue(o.Subtotal)
		row.AddCell().SetValue(o.DeliveryFee)
		row.AddCell().SetValue(o.Tax)
		row.AddCell().SetValue(o.Total)
		row.AddCell().SetValue(o.DeliveryAddress)
		arrival := ""
		if o.ArrivalTime != nil {
			arrival = o.ArrivalTime.Format("2006-01-02 15:04")
		}
		row.AddCell().SetValue(arrival)
		row.AddCell().SetValue(o.SpecialInstructions)
		row.AddCell().SetValue(o.PaymentProof.URL)
	}

	return file.Write(w)
}

// GET /api/orders/restaurant/:restaurantId/export
func ExportRestaurantOrdersHandler(lc *Lifecycle, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantId")
		if err := middleware.RestaurantAccess(db, middleware.CurrentPrincipal(c), restaurantID, auth.CapOrders); err != nil {
			respond.Error(c, err)
			return
		}
		orders, err := lc.ListByRestaurant(c.Request.Context(), restaurantID)
		if err != nil {
			respond.Error(c, err)
			return
		}

		filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := WriteOrdersWorkbook(c.Writer, orders); err != nil {
			respond.Error(c, fmt.Errorf("write Excel file: %w", err))
			return
		}
	}
}

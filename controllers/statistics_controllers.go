package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

// StatisticsController serves read-only aggregates. Revenue figures sum
// COMPLETED orders only; order counts include every status.
type StatisticsController struct {
	DB *gorm.DB
}

func NewStatisticsController(db *gorm.DB) *StatisticsController {
	return &StatisticsController{DB: db}
}

func (sc *StatisticsController) completedOrders(businessID uint) *gorm.DB {
	return sc.DB.Model(&models.Order{}).
		Where("business_id = ? AND status = ?", businessID, models.OrderStatusCompleted)
}

func (sc *StatisticsController) GetTotalRevenue(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var total float64
	if err := sc.completedOrders(businessID).
		Select("COALESCE(SUM(price), 0)").Scan(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Total revenue", gin.H{"total_revenue": total})
}

func (sc *StatisticsController) GetTableRevenue(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	tableID := c.Param("table_id")

	var total float64
	if err := sc.completedOrders(businessID).Where("table_id = ?", tableID).
		Select("COALESCE(SUM(price), 0)").Scan(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table revenue", gin.H{"table_revenue": total})
}

// Time windows are fixed deltas from now, not calendar-aligned.
func (sc *StatisticsController) GetDailyRevenue(c *gin.Context) {
	sc.periodRevenue(c, 24*time.Hour, "Daily revenue")
}

func (sc *StatisticsController) GetWeeklyRevenue(c *gin.Context) {
	sc.periodRevenue(c, 7*24*time.Hour, "Weekly revenue")
}

func (sc *StatisticsController) GetMonthlyRevenue(c *gin.Context) {
	sc.periodRevenue(c, 30*24*time.Hour, "Monthly revenue")
}

func (sc *StatisticsController) GetYearlyRevenue(c *gin.Context) {
	sc.periodRevenue(c, 365*24*time.Hour, "Yearly revenue")
}

func (sc *StatisticsController) periodRevenue(c *gin.Context, delta time.Duration, message string) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	since := time.Now().UTC().Add(-delta)
	var total float64
	if err := sc.completedOrders(businessID).Where("created_at >= ?", since).
		Select("COALESCE(SUM(price), 0)").Scan(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, gin.H{"revenue": total})
}

func (sc *StatisticsController) GetOrdersCount(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var count int64
	if err := sc.DB.Model(&models.Order{}).
		Where("business_id = ?", businessID).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders count", gin.H{"total_orders": count})
}

// GetDetailedStatistics aggregates revenue, items sold, order and
// reservation counts, with optional year/month filters. Failures here
// come back as a generic error payload rather than a 500.
func (sc *StatisticsController) GetDetailedStatistics(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	stats, err := sc.collectDetailedStats(businessID, c.Query("year"), c.Query("month"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Detailed statistics", stats)
}

func (sc *StatisticsController) collectDetailedStats(businessID uint, year, month string) (gin.H, error) {
	from, to, err := statsWindow(year, month)
	if err != nil {
		return nil, err
	}

	orders := sc.DB.Model(&models.Order{}).Where("business_id = ?", businessID)
	completed := sc.completedOrders(businessID)
	itemsSold := sc.completedOrders(businessID)
	if !from.IsZero() {
		orders = orders.Where("created_at >= ? AND created_at < ?", from, to)
		completed = completed.Where("created_at >= ? AND created_at < ?", from, to)
		itemsSold = itemsSold.Where("created_at >= ? AND created_at < ?", from, to)
	}

	var totalRevenue float64
	if err := completed.Select("COALESCE(SUM(price), 0)").Scan(&totalRevenue).Error; err != nil {
		return nil, err
	}

	var totalItemsSold int64
	if err := itemsSold.Select("COALESCE(SUM(quantity), 0)").Scan(&totalItemsSold).Error; err != nil {
		return nil, err
	}

	var totalOrders int64
	if err := orders.Count(&totalOrders).Error; err != nil {
		return nil, err
	}

	var totalReservations int64
	if err := sc.DB.Model(&models.Reservation{}).
		Where("business_id = ?", businessID).Count(&totalReservations).Error; err != nil {
		return nil, err
	}

	return gin.H{
		"total_revenue":      totalRevenue,
		"total_items_sold":   totalItemsSold,
		"total_orders":       totalOrders,
		"total_reservations": totalReservations,
	}, nil
}

// statsWindow turns optional year/month strings into a [from, to)
// range. Empty year means no filtering.
func statsWindow(year, month string) (time.Time, time.Time, error) {
	if year == "" {
		return time.Time{}, time.Time{}, nil
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid year %q", year)
	}
	if month == "" {
		from := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), nil
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q", month)
	}
	from := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

// ExportPDF renders the revenue/count summary as a PDF download.
func (sc *StatisticsController) ExportPDF(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var business models.Business
	if err := sc.DB.First(&business, businessID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("business not found"))
		return
	}

	stats, err := sc.collectDetailedStats(businessID, "", "")
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Revenue report: %s", business.Name))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Generated at %s", time.Now().UTC().Format("2006-01-02 15:04 UTC")))
	pdf.Ln(10)

	rows := []struct {
		label string
		value string
	}{
		{"Total revenue", utils.FormatCurrency(stats["total_revenue"].(float64))},
		{"Items sold", fmt.Sprintf("%d", stats["total_items_sold"].(int64))},
		{"Orders", fmt.Sprintf("%d", stats["total_orders"].(int64))},
		{"Reservations", fmt.Sprintf("%d", stats["total_reservations"].(int64))},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(60, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(80, 8, row.value, "1", 1, "R", false, 0, "")
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report_%d.pdf", business.ID))
	c.Header("Content-Type", "application/pdf")
	if err := pdf.Output(c.Writer); err != nil {
		utils.ErrorLogger.Printf("pdf export for business %d: %v", business.ID, err)
	}
}

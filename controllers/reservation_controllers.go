package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/services"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

type ReservationController struct {
	DB *gorm.DB
}

func NewReservationController(db *gorm.DB) *ReservationController {
	return &ReservationController{DB: db}
}

var errSlotTaken = errors.New("table already reserved for this slot")

// CreateReservation books a table for [start, end). The overlap check
// and the insert run in one transaction holding the table row, so two
// concurrent requests for the same slot cannot both pass validation.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	var req struct {
		TableID   uint   `json:"table_id" binding:"required"`
		Day       string `json:"day" binding:"required"`
		StartTime string `json:"start_time" binding:"required"`
		EndTime   string `json:"end_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	start, err := utils.CombineDayTime(req.Day, req.StartTime)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	end, err := utils.CombineDayTime(req.Day, req.EndTime)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !end.After(start) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("end time must be after start time"))
		return
	}

	reservation := models.Reservation{
		BusinessID: businessID,
		UserID:     userID,
		TableID:    req.TableID,
		StartTime:  start,
		EndTime:    end,
		IsActive:   true,
	}

	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("business_id = ?", businessID).First(&table, req.TableID).Error; err != nil {
			return gorm.ErrRecordNotFound
		}

		overlapping, err := countOverlaps(tx, businessID, req.TableID, start, end, 0)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return errSlotTaken
		}

		return tx.Create(&reservation).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	case errors.Is(err, errSlotTaken):
		utils.RespondError(c, http.StatusConflict, errSlotTaken)
		return
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.scheduleBoundaries(reservation)

	utils.InfoLogger.Printf("Reservation %d created for table %d [%s, %s)",
		reservation.ID, reservation.TableID, start.Format(time.RFC3339), end.Format(time.RFC3339))
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// scheduleBoundaries applies the start flip immediately when the
// interval has already begun, otherwise leaves it to the worker. The
// end flip is always a scheduled job.
func (rc *ReservationController) scheduleBoundaries(r models.Reservation) {
	now := time.Now().UTC()

	if !r.StartTime.After(now) {
		if err := services.RecomputeTableStatus(rc.DB, r.TableID, now); err != nil {
			utils.ErrorLogger.Printf("recompute table %d status: %v", r.TableID, err)
		}
	} else {
		if err := services.EnqueueStatusJob(rc.DB, r.BusinessID, r.TableID, r.StartTime); err != nil {
			utils.ErrorLogger.Printf("enqueue start job for table %d: %v", r.TableID, err)
		}
	}

	if err := services.EnqueueStatusJob(rc.DB, r.BusinessID, r.TableID, r.EndTime); err != nil {
		utils.ErrorLogger.Printf("enqueue end job for table %d: %v", r.TableID, err)
	}
}

// UpdateReservation replaces the time window. Day and both times are
// required; the overlap check runs again with the reservation itself
// excluded.
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	var req struct {
		Day       string `json:"day" binding:"required"`
		StartTime string `json:"start_time" binding:"required"`
		EndTime   string `json:"end_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	rc.applyTimeUpdate(c, req.Day, req.StartTime, req.EndTime, nil)
}

// PatchReservation updates only the supplied fields; absent fields keep
// their stored values.
func (rc *ReservationController) PatchReservation(c *gin.Context) {
	var req struct {
		Day       *string `json:"day"`
		StartTime *string `json:"start_time"`
		EndTime   *string `json:"end_time"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	day, startTime, endTime := "", "", ""
	if req.Day != nil {
		day = *req.Day
	}
	if req.StartTime != nil {
		startTime = *req.StartTime
	}
	if req.EndTime != nil {
		endTime = *req.EndTime
	}
	rc.applyTimeUpdate(c, day, startTime, endTime, req.IsActive)
}

func (rc *ReservationController) applyTimeUpdate(c *gin.Context, day, startTime, endTime string, isActive *bool) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	reservationID := c.Param("id")

	var reservation models.Reservation
	if err := rc.DB.Where("business_id = ?", businessID).First(&reservation, reservationID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("reservation not found"))
		return
	}

	// Unspecified pieces fall back to the stored interval, rendered back
	// into reference-timezone day/time form so a lone day or time of day
	// still recombines into a full boundary.
	start := reservation.StartTime
	end := reservation.EndTime
	var err error
	if day != "" || startTime != "" || endTime != "" {
		storedStartDay, storedStartTime := utils.SplitDayTime(reservation.StartTime)
		storedEndDay, storedEndTime := utils.SplitDayTime(reservation.EndTime)
		startDay, endDay := storedStartDay, storedEndDay
		if day != "" {
			startDay, endDay = day, day
		}
		if startTime == "" {
			startTime = storedStartTime
		}
		if endTime == "" {
			endTime = storedEndTime
		}
		start, err = utils.CombineDayTime(startDay, startTime)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		end, err = utils.CombineDayTime(endDay, endTime)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}
	if !end.After(start) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("end time must be after start time"))
		return
	}

	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("business_id = ?", businessID).First(&table, reservation.TableID).Error; err != nil {
			return gorm.ErrRecordNotFound
		}

		overlapping, err := countOverlaps(tx, businessID, reservation.TableID, start, end, reservation.ID)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return errSlotTaken
		}

		reservation.StartTime = start
		reservation.EndTime = end
		if isActive != nil {
			reservation.IsActive = *isActive
		}
		return tx.Save(&reservation).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	case errors.Is(err, errSlotTaken):
		utils.RespondError(c, http.StatusConflict, errSlotTaken)
		return
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.scheduleBoundaries(reservation)

	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

// DeleteReservation removes the booking, then recomputes the table
// status from the remaining reservations. A table held by another
// active reservation stays RESERVED.
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	reservationID := c.Param("id")

	var reservation models.Reservation
	if err := rc.DB.Where("business_id = ?", businessID).First(&reservation, reservationID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("reservation not found"))
		return
	}

	if err := rc.DB.Delete(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Only a reservation covering the current instant can have the table
	// showing RESERVED on its behalf.
	if now := time.Now().UTC(); reservation.Covers(now) {
		if err := services.RecomputeTableStatus(rc.DB, reservation.TableID, now); err != nil {
			utils.ErrorLogger.Printf("recompute table %d status after delete: %v", reservation.TableID, err)
		}
	}

	utils.InfoLogger.Printf("Reservation %d deleted", reservation.ID)
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", reservation)
}

func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	reservationID := c.Param("id")

	var reservation models.Reservation
	if err := rc.DB.Where("business_id = ?", businessID).First(&reservation, reservationID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("reservation not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// GetHistory lists the caller's reservations whose interval has fully
// elapsed.
func (rc *ReservationController) GetHistory(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	var reservations []models.Reservation
	if err := rc.DB.Where("business_id = ? AND user_id = ? AND end_time <= ?",
		businessID, userID, time.Now().UTC()).
		Order("start_time desc").Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation history", reservations)
}

// GetActive lists the caller's reservations whose interval covers now.
func (rc *ReservationController) GetActive(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	now := time.Now().UTC()
	var reservations []models.Reservation
	if err := rc.DB.Where("business_id = ? AND user_id = ? AND is_active = ? AND start_time <= ? AND end_time > ?",
		businessID, userID, true, now, now).
		Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active reservations", reservations)
}

// GetAllActive is the staff view: every reservation in the business
// currently covering now, newest start first.
func (rc *ReservationController) GetAllActive(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	var reservations []models.Reservation
	if err := rc.DB.Where("business_id = ? AND is_active = ? AND start_time <= ? AND end_time > ?",
		businessID, true, now, now).
		Order("start_time desc").Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All active reservations", reservations)
}

// countOverlaps runs the half-open interval test
// existing.start < end AND existing.end > start on the table's active
// reservations. excludeID skips the reservation being updated.
func countOverlaps(tx *gorm.DB, businessID, tableID uint, start, end time.Time, excludeID uint) (int64, error) {
	query := tx.Model(&models.Reservation{}).
		Where("business_id = ? AND table_id = ? AND is_active = ? AND start_time < ? AND end_time > ?",
			businessID, tableID, true, end, start)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/controllers"
	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

func setupTestDBForReservations(name string) *gorm.DB {
	db := openTestDB(name)

	db.Create(&models.Business{Name: "Test Restaurant", IsPaid: true})
	db.Create(&models.Floor{BusinessID: 1, Name: "Ground floor"})
	db.Create(&models.Module{BusinessID: 1, FloorID: 1, Name: "Main hall"})
	db.Create(&models.Table{BusinessID: 1, TableNumber: 1, ModuleID: 1, Capacity: 4, Status: models.TableStatusAvailable})

	return db
}

func setupReservationRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	r := gin.Default()

	ctrl := controllers.NewReservationController(db)
	grp := r.Group("/:business_id/reservation")
	grp.Use(authAs(userID, role))
	{
		grp.POST("/create", ctrl.CreateReservation)
		grp.GET("/history", ctrl.GetHistory)
		grp.GET("/active", ctrl.GetActive)
		grp.GET("/all-active", ctrl.GetAllActive)
		grp.GET("/:id", ctrl.GetReservationByID)
		grp.PUT("/:id", ctrl.UpdateReservation)
		grp.PATCH("/:id", ctrl.PatchReservation)
		grp.DELETE("/:id", ctrl.DeleteReservation)
	}

	return r
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	db := setupTestDBForReservations("reservations_overlap")
	r := setupReservationRouter(db, 1, models.RoleCustomer)

	day, _ := dayAndTime(time.Now().Add(48 * time.Hour))

	w := doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   1,
		"day":        day,
		"start_time": "14:00",
		"end_time":   "15:00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Overlapping slot on the same table is refused.
	w = doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   1,
		"day":        day,
		"start_time": "14:30",
		"end_time":   "15:30",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Intervals are half-open: a slot starting exactly at the previous
	// end is fine.
	w = doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   1,
		"day":        day,
		"start_time": "15:00",
		"end_time":   "16:00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// End before start never makes it to the database.
	w = doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   1,
		"day":        day,
		"start_time": "18:00",
		"end_time":   "17:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown table.
	w = doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   99,
		"day":        day,
		"start_time": "18:00",
		"end_time":   "19:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// sameDayWindow returns a window around the current instant, clamped
// to today's local date because the endpoint takes a single day for
// both times.
func sameDayWindow() (day, startTime, endTime string) {
	local := time.Now().In(reservationLocation)
	day = local.Format("2006-01-02")

	start := local.Add(-30 * time.Minute)
	if start.Day() != local.Day() {
		start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, reservationLocation)
	}
	end := local.Add(30 * time.Minute)
	if end.Day() != local.Day() {
		end = time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 0, 0, reservationLocation)
	}
	return day, start.Format("15:04"), end.Format("15:04")
}

func TestReservationStartingNowFlipsTable(t *testing.T) {
	db := setupTestDBForReservations("reservations_now")
	r := setupReservationRouter(db, 1, models.RoleCustomer)

	day, startTime, endTime := sameDayWindow()

	w := doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   1,
		"day":        day,
		"start_time": startTime,
		"end_time":   endTime,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// The interval already covers now, so the flip is applied
	// synchronously.
	var table models.Table
	assert.NoError(t, db.First(&table, 1).Error)
	assert.Equal(t, models.TableStatusReserved, table.Status)

	// The end boundary is on the durable schedule.
	var jobs int64
	db.Model(&models.TableStatusJob{}).Where("table_id = ? AND processed = ?", 1, false).Count(&jobs)
	assert.Equal(t, int64(1), jobs)

	// Deleting the reservation recomputes the status immediately.
	resp := parseBody(w)
	reservationID := uint(resp["data"].(map[string]interface{})["id"].(float64))

	w = doJSON(r, "DELETE", fmt.Sprintf("/1/reservation/%d", reservationID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, db.First(&table, 1).Error)
	assert.Equal(t, models.TableStatusAvailable, table.Status)
}

func TestFutureReservationLeavesTableAvailable(t *testing.T) {
	db := setupTestDBForReservations("reservations_future")
	r := setupReservationRouter(db, 1, models.RoleCustomer)

	day, _ := dayAndTime(time.Now().Add(48 * time.Hour))

	w := doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   1,
		"day":        day,
		"start_time": "10:00",
		"end_time":   "11:00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var table models.Table
	assert.NoError(t, db.First(&table, 1).Error)
	assert.Equal(t, models.TableStatusAvailable, table.Status)

	// Both boundaries are queued for the worker.
	var jobs int64
	db.Model(&models.TableStatusJob{}).Where("table_id = ? AND processed = ?", 1, false).Count(&jobs)
	assert.Equal(t, int64(2), jobs)
}

func TestUpdateReservationRechecksOverlap(t *testing.T) {
	db := setupTestDBForReservations("reservations_update")
	r := setupReservationRouter(db, 1, models.RoleSupervisor)

	day, _ := dayAndTime(time.Now().Add(72 * time.Hour))

	w := doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   1,
		"day":        day,
		"start_time": "14:00",
		"end_time":   "15:00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   1,
		"day":        day,
		"start_time": "16:00",
		"end_time":   "17:00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := parseBody(w)
	secondID := uint(resp["data"].(map[string]interface{})["id"].(float64))

	// Moving the second reservation onto the first is refused.
	w = doJSON(r, "PUT", fmt.Sprintf("/1/reservation/%d", secondID), map[string]interface{}{
		"day":        day,
		"start_time": "14:30",
		"end_time":   "15:30",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Moving it flush against the first is allowed, and a no-op move
	// must not collide with the reservation itself.
	w = doJSON(r, "PUT", fmt.Sprintf("/1/reservation/%d", secondID), map[string]interface{}{
		"day":        day,
		"start_time": "15:00",
		"end_time":   "16:00",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "PUT", fmt.Sprintf("/1/reservation/%d", secondID), map[string]interface{}{
		"day":        day,
		"start_time": "15:00",
		"end_time":   "16:00",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPatchReservationAppliesPartialFields(t *testing.T) {
	db := setupTestDBForReservations("reservations_patch")
	r := setupReservationRouter(db, 1, models.RoleSupervisor)

	day, _ := dayAndTime(time.Now().Add(72 * time.Hour))

	w := doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   1,
		"day":        day,
		"start_time": "14:00",
		"end_time":   "16:00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := parseBody(w)
	id := uint(resp["data"].(map[string]interface{})["id"].(float64))

	// Start-only patch: the stored day and end survive.
	w = doJSON(r, "PATCH", fmt.Sprintf("/1/reservation/%d", id), map[string]interface{}{
		"start_time": "15:00",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var reservation models.Reservation
	assert.NoError(t, db.First(&reservation, id).Error)
	wantStart, _ := utils.CombineDayTime(day, "15:00")
	wantEnd, _ := utils.CombineDayTime(day, "16:00")
	assert.True(t, reservation.StartTime.Equal(wantStart), "start should move to 15:00")
	assert.True(t, reservation.EndTime.Equal(wantEnd), "end should stay at 16:00")

	// End-only patch.
	w = doJSON(r, "PATCH", fmt.Sprintf("/1/reservation/%d", id), map[string]interface{}{
		"end_time": "16:30",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, db.First(&reservation, id).Error)
	wantEnd, _ = utils.CombineDayTime(day, "16:30")
	assert.True(t, reservation.StartTime.Equal(wantStart), "start should stay at 15:00")
	assert.True(t, reservation.EndTime.Equal(wantEnd), "end should move to 16:30")

	// Day-only patch moves both boundaries, keeping the times of day.
	nextDay, _ := dayAndTime(time.Now().Add(96 * time.Hour))
	w = doJSON(r, "PATCH", fmt.Sprintf("/1/reservation/%d", id), map[string]interface{}{
		"day": nextDay,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, db.First(&reservation, id).Error)
	wantStart, _ = utils.CombineDayTime(nextDay, "15:00")
	wantEnd, _ = utils.CombineDayTime(nextDay, "16:30")
	assert.True(t, reservation.StartTime.Equal(wantStart))
	assert.True(t, reservation.EndTime.Equal(wantEnd))

	// is_active-only patch leaves the interval alone.
	w = doJSON(r, "PATCH", fmt.Sprintf("/1/reservation/%d", id), map[string]interface{}{
		"is_active": false,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, db.First(&reservation, id).Error)
	assert.False(t, reservation.IsActive)
	assert.True(t, reservation.StartTime.Equal(wantStart))
	assert.True(t, reservation.EndTime.Equal(wantEnd))
}

func TestPatchReservationRechecksOverlap(t *testing.T) {
	db := setupTestDBForReservations("reservations_patch_overlap")
	r := setupReservationRouter(db, 1, models.RoleSupervisor)

	day, _ := dayAndTime(time.Now().Add(72 * time.Hour))

	w := doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   1,
		"day":        day,
		"start_time": "14:00",
		"end_time":   "16:00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/1/reservation/create", map[string]interface{}{
		"table_id":   1,
		"day":        day,
		"start_time": "17:00",
		"end_time":   "18:00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := parseBody(w)
	secondID := uint(resp["data"].(map[string]interface{})["id"].(float64))

	// Pulling the start back to 15:30 would make the window 15:30-18:00,
	// colliding with the first reservation.
	w = doJSON(r, "PATCH", fmt.Sprintf("/1/reservation/%d", secondID), map[string]interface{}{
		"start_time": "15:30",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var reservation models.Reservation
	assert.NoError(t, db.First(&reservation, secondID).Error)
	wantStart, _ := utils.CombineDayTime(day, "17:00")
	assert.True(t, reservation.StartTime.Equal(wantStart), "rejected patch must not change the window")

	// Flush against the first reservation is fine.
	w = doJSON(r, "PATCH", fmt.Sprintf("/1/reservation/%d", secondID), map[string]interface{}{
		"start_time": "16:00",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReservationHistoryAndActive(t *testing.T) {
	db := setupTestDBForReservations("reservations_listing")
	r := setupReservationRouter(db, 1, models.RoleCustomer)

	now := time.Now().UTC()

	// Seed directly: one fully elapsed, one covering now, one upcoming.
	db.Create(&models.Reservation{
		BusinessID: 1, UserID: 1, TableID: 1,
		StartTime: now.Add(-3 * time.Hour), EndTime: now.Add(-2 * time.Hour), IsActive: true,
	})
	db.Create(&models.Reservation{
		BusinessID: 1, UserID: 1, TableID: 1,
		StartTime: now.Add(-30 * time.Minute), EndTime: now.Add(30 * time.Minute), IsActive: true,
	})
	db.Create(&models.Reservation{
		BusinessID: 1, UserID: 1, TableID: 1,
		StartTime: now.Add(2 * time.Hour), EndTime: now.Add(3 * time.Hour), IsActive: true,
	})

	w := doJSON(r, "GET", "/1/reservation/history", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseBody(w)
	history := resp["data"].([]interface{})
	assert.Len(t, history, 1)

	w = doJSON(r, "GET", "/1/reservation/active", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = parseBody(w)
	active := resp["data"].([]interface{})
	assert.Len(t, active, 1)

	w = doJSON(r, "GET", "/1/reservation/all-active", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

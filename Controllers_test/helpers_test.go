package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
}

// openTestDB opens a named SQLite in-memory database. Each test file
// uses its own name so their data stays separate.
func openTestDB(name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Floor{},
		&models.Module{},
		&models.Table{},
		&models.Menu{},
		&models.Order{},
		&models.Reservation{},
		&models.TableStatusJob{},
		&models.PaymentTransaction{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

// authAs stands in for the auth middleware: it injects the identity
// claims the controllers read from the context.
func authAs(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

// doJSON performs a request with a JSON body and records the response.
func doJSON(r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			panic(err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequest(method, path, body)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseBody(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		panic(err)
	}
	return resp
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

var reservationLocation = func() *time.Location {
	loc, err := time.LoadLocation(utils.ReferenceTimezone)
	if err != nil {
		loc = time.FixedZone("UZT", 5*60*60)
	}
	return loc
}()

// dayAndTime renders an instant as the day / time-of-day strings the
// reservation endpoints accept.
func dayAndTime(t time.Time) (string, string) {
	local := t.In(reservationLocation)
	return local.Format("2006-01-02"), local.Format("15:04")
}

package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

// RequirePaidBusiness blocks tenant-scoped routes once the business
// subscription has lapsed. The billing monitor flips is_paid off; this
// is where that flip takes effect.
func RequirePaidBusiness() gin.HandlerFunc {
	return func(c *gin.Context) {
		businessID := c.Param("business_id")
		if businessID == "" {
			c.Next()
			return
		}

		db := utils.GetDB()
		if db == nil {
			c.Next()
			return
		}

		var business models.Business
		if err := db.First(&business, businessID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("business not found"))
			c.Abort()
			return
		}

		if !business.IsPaid {
			utils.RespondError(c, http.StatusPaymentRequired, errors.New("business subscription has expired"))
			c.Abort()
			return
		}

		c.Next()
	}
}

package handlers

import (
	"net/http"

	"night_shift_app_go/db"
	"night_shift_app_go/middleware"
	"night_shift_app_go/services"

	"github.com/labstack/echo/v4"
)

// babyRequest is the JSON body for creating or updating a baby
type babyRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"` // YYYY-MM-DD
}

// GetBabiesHandler returns all babies linked to the current user
func GetBabiesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	babies, err := services.GetBabiesByUser(db.DB, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch babies",
		})
	}

	return c.JSON(http.StatusOK, babies)
}

// CreateBabyHandler registers a baby for the current user
func CreateBabyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req babyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" || req.BirthDate == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Name and birth date are required",
		})
	}

	birthDate, err := services.ParseDate(req.BirthDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	baby, err := services.CreateBaby(db.DB, user.ID, services.CreateBabyInput{
		Name:      req.Name,
		BirthDate: birthDate,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create baby",
		})
	}

	return c.JSON(http.StatusCreated, baby)
}

// GetBabyHandler returns a single baby the user has access to
func GetBabyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	babyID := c.Param("id")

	baby, err := services.GetBabyByID(db.DB, babyID, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch baby",
		})
	}
	if baby == nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Baby not found",
		})
	}

	return c.JSON(http.StatusOK, baby)
}

// UpdateBabyHandler updates a baby's name or birth date
func UpdateBabyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	babyID := c.Param("id")

	var req babyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	input := services.UpdateBabyInput{}
	if req.Name != "" {
		input.Name = &req.Name
	}
	if req.BirthDate != "" {
		birthDate, err := services.ParseDate(req.BirthDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}
		input.BirthDate = &birthDate
	}

	baby, err := services.UpdateBaby(db.DB, babyID, user.ID, input)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to update baby",
		})
	}
	if baby == nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Baby not found",
		})
	}

	return c.JSON(http.StatusOK, baby)
}

// DeleteBabyHandler unlinks a baby from the current user, deleting the baby
// and its logs when no other caregiver remains
func DeleteBabyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	babyID := c.Param("id")

	deleted, err := services.DeleteBaby(db.DB, babyID, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete baby",
		})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Baby not found",
		})
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

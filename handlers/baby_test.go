package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"night_shift_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateBabyHandler(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "parent@example.com")

	c, rec := newJSONContext(t, http.MethodPost, "/api/babies", `{"name": "June", "birthDate": "2024-01-10"}`)
	signIn(c, user)

	assert.NoError(t, CreateBabyHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var baby models.Baby
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &baby))
	assert.Equal(t, "June", baby.Name)
	assert.NotEmpty(t, baby.ID)

	// The creating user is linked
	var count int64
	database.Model(&models.UserBaby{}).Where("user_id = ? AND baby_id = ?", user.ID, baby.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateBabyHandlerValidation(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "parent@example.com")

	// Missing fields
	c, rec := newJSONContext(t, http.MethodPost, "/api/babies", `{"name": "June"}`)
	signIn(c, user)
	assert.NoError(t, CreateBabyHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed date
	c, rec = newJSONContext(t, http.MethodPost, "/api/babies", `{"name": "June", "birthDate": "10/01/2024"}`)
	signIn(c, user)
	assert.NoError(t, CreateBabyHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBabiesHandler(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "parent@example.com")
	other := createTestUser(t, database, "other@example.com")
	createTestBaby(t, database, user.ID)
	createTestBaby(t, database, other.ID)

	c, rec := newJSONContext(t, http.MethodGet, "/api/babies", "")
	signIn(c, user)

	assert.NoError(t, GetBabiesHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var babies []models.Baby
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &babies))
	assert.Len(t, babies, 1)
}

func TestGetBabyHandler(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "parent@example.com")
	stranger := createTestUser(t, database, "stranger@example.com")
	baby := createTestBaby(t, database, user.ID)

	// Owner sees the baby
	c, rec := newJSONContext(t, http.MethodGet, "/api/babies/"+baby.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(baby.ID)
	signIn(c, user)
	assert.NoError(t, GetBabyHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Other users get a 404, not a 403, to avoid leaking existence
	c, rec = newJSONContext(t, http.MethodGet, "/api/babies/"+baby.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(baby.ID)
	signIn(c, stranger)
	assert.NoError(t, GetBabyHandler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateBabyHandler(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "parent@example.com")
	baby := createTestBaby(t, database, user.ID)

	c, rec := newJSONContext(t, http.MethodPut, "/api/babies/"+baby.ID, `{"name": "Juniper"}`)
	c.SetParamNames("id")
	c.SetParamValues(baby.ID)
	signIn(c, user)

	assert.NoError(t, UpdateBabyHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.Baby
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Juniper", updated.Name)
}

func TestDeleteBabyHandler(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "parent@example.com")
	baby := createTestBaby(t, database, user.ID)

	c, rec := newJSONContext(t, http.MethodDelete, "/api/babies/"+baby.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(baby.ID)
	signIn(c, user)

	assert.NoError(t, DeleteBabyHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	database.Model(&models.Baby{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// Deleting again reports not found
	c, rec = newJSONContext(t, http.MethodDelete, fmt.Sprintf("/api/babies/%s", baby.ID), "")
	c.SetParamNames("id")
	c.SetParamValues(baby.ID)
	signIn(c, user)
	assert.NoError(t, DeleteBabyHandler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

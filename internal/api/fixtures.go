package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velesar/fateweaver/internal/constants"
	"github.com/velesar/fateweaver/internal/service"
)

type SaveFixtureRequest struct {
	Name        string `json:"name"`
	EncounterID string `json:"encounter_id"`
}

// ListFixtures returns every stored golden fixture.
func (h *EncounterHandler) ListFixtures(c *gin.Context) {
	fixtures, err := h.repo.ListFixtures()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchFixtures})
		return
	}
	c.JSON(http.StatusOK, fixtures)
}

// SaveFixture freezes an encounter's trace as a named golden fixture.
func (h *EncounterHandler) SaveFixture(c *gin.Context) {
	var req SaveFixtureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	fixture, err := service.SaveFixture(h.repo, req.Name, req.EncounterID)
	if err != nil {
		switch err {
		case service.ErrFixtureName:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		case service.ErrEncounterNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrEncounterNotFound})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSaveFixture})
		}
		return
	}
	c.JSON(http.StatusCreated, fixture)
}

// VerifyFixture replays one fixture and reports whether it still
// reproduces the stored fingerprint.
func (h *EncounterHandler) VerifyFixture(c *gin.Context) {
	report, err := service.VerifyFixture(h.repo, c.Param("name"))
	if err != nil {
		if err == service.ErrFixtureNotFound {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrFixtureNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedVerify})
		return
	}
	c.JSON(http.StatusOK, report)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velesar/fateweaver/internal/constants"
	"github.com/velesar/fateweaver/internal/encounter"
	"github.com/velesar/fateweaver/internal/service"
)

type StartEncounterRequest struct {
	EnemyIDs []string `json:"enemy_ids"`
	Seed     uint64   `json:"seed"`
}

// StartEncounter creates a new encounter from loaded content. A zero
// seed is replaced with a random one so casual callers still get
// replayable encounters.
func (h *EncounterHandler) StartEncounter(c *gin.Context) {
	var req StartEncounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = randomSeed()
	}
	view, err := service.StartEncounter(h.repo, h.cfg, req.EnemyIDs, seed)
	if err != nil {
		switch err {
		case service.ErrUnknownEnemy, service.ErrNoEnemiesChosen:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreate})
		}
		return
	}
	c.JSON(http.StatusCreated, view)
}

// ListEncounters returns recent encounters, optionally filtered by
// status.
func (h *EncounterHandler) ListEncounters(c *gin.Context) {
	recs, err := h.repo.ListEncounters(c.Query("status"), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreEncounter})
		return
	}
	c.JSON(http.StatusOK, recs)
}

// GetEncounter returns the stored encounter's current view.
func (h *EncounterHandler) GetEncounter(c *gin.Context) {
	view, err := service.GetEncounter(h.repo, c.Param("encounterID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrEncounterNotFound})
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitAction performs one player action against the stored encounter.
func (h *EncounterHandler) SubmitAction(c *gin.Context) {
	var action encounter.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	view, err := service.SubmitAction(h.repo, c.Param("encounterID"), action)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AdvancePhase moves the stored encounter one phase forward.
func (h *EncounterHandler) AdvancePhase(c *gin.Context) {
	view, err := service.AdvancePhase(h.repo, c.Param("encounterID"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetResult returns the final outcome map and classification.
func (h *EncounterHandler) GetResult(c *gin.Context) {
	view, err := service.GetEncounter(h.repo, c.Param("encounterID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrEncounterNotFound})
		return
	}
	if view.Result == nil {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrEncounterNotOver, constants.JSONKeyStatus: view.Status})
		return
	}
	c.JSON(http.StatusOK, view.Result)
}

// VerifyEncounter replays the stored trace and reports determinism.
func (h *EncounterHandler) VerifyEncounter(c *gin.Context) {
	ok, err := service.VerifyEncounter(h.repo, c.Param("encounterID"))
	if err != nil {
		if err == service.ErrEncounterNotFound {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrEncounterNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedVerify})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deterministic": ok})
}

// GetContent exposes the loaded content pack so clients can render
// enemy and card metadata.
func (h *EncounterHandler) GetContent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"hero":        h.cfg.Hero,
		"enemies":     h.cfg.Enemies,
		"summon_pool": h.cfg.SummonPool,
		"fate_deck":   h.cfg.Deck,
	})
}

func writeServiceError(c *gin.Context, err error) {
	switch err {
	case service.ErrEncounterNotFound:
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrEncounterNotFound})
	case service.ErrEncounterOver:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrEncounterOver})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreEncounter})
	}
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/velesar/fateweaver/internal/config"
	"github.com/velesar/fateweaver/internal/constants"
	"github.com/velesar/fateweaver/internal/storage"
)

// EncounterHandler bundles the repository and loaded content for the
// HTTP handlers.
type EncounterHandler struct {
	repo storage.Repository
	cfg  *config.LoadedConfig
}

func NewEncounterHandler(repo storage.Repository, cfg *config.LoadedConfig) *EncounterHandler {
	return &EncounterHandler{repo: repo, cfg: cfg}
}

// RegisterRoutes wires every API route onto the group.
func (h *EncounterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(constants.RouteVersion, Version)
	rg.GET(constants.RouteContent, h.GetContent)

	rg.POST(constants.RouteEncounters, h.StartEncounter)
	rg.GET(constants.RouteEncounters, h.ListEncounters)
	rg.GET(constants.RouteEncounterByID, h.GetEncounter)
	rg.POST(constants.RouteEncounterAction, h.SubmitAction)
	rg.POST(constants.RouteEncounterAdvance, h.AdvancePhase)
	rg.GET(constants.RouteEncounterResult, h.GetResult)
	rg.POST(constants.RouteEncounterVerify, h.VerifyEncounter)

	rg.GET(constants.RouteFixtures, h.ListFixtures)
	rg.POST(constants.RouteFixtures, h.SaveFixture)
	rg.POST(constants.RouteFixtureVerify, h.VerifyFixture)
}

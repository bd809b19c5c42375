package handlers

import (
	"net/http"

	"sitegraph/application/services"
	"sitegraph/domain/core/aggregates"
	"sitegraph/pkg/common"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// GraphHandler exposes the sitemap graph engine over HTTP
type GraphHandler struct {
	sessions *services.SessionManager
	validate *validator.Validate
	logger   *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(sessions *services.SessionManager, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		sessions: sessions,
		validate: validator.New(),
		logger:   logger,
	}
}

// graphResponse is the snapshot payload returned to the presentation layer
type graphResponse struct {
	Nodes   []aggregates.GraphNode `json:"nodes"`
	Edges   []aggregates.GraphEdge `json:"edges"`
	Stats   aggregates.Stats       `json:"stats"`
	CanUndo bool                   `json:"can_undo"`
	CanRedo bool                   `json:"can_redo"`
}

func snapshotResponse(engine *services.SitemapEngine, snapshot aggregates.GraphSnapshot) graphResponse {
	return graphResponse{
		Nodes:   snapshot.Nodes,
		Edges:   snapshot.Edges,
		Stats:   snapshot.Stats(),
		CanUndo: engine.CanUndo(),
		CanRedo: engine.CanRedo(),
	}
}

// GetGraph handles GET /websites/{websiteID}/graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	common.RespondJSON(w, http.StatusOK, snapshotResponse(engine, engine.Snapshot()))
}

// ReloadGraph handles POST /websites/{websiteID}/graph/reload.
// The graph is rebuilt from scratch and session history is discarded.
func (h *GraphHandler) ReloadGraph(w http.ResponseWriter, r *http.Request) {
	websiteID := chi.URLParam(r, "websiteID")
	if websiteID == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "website ID is required")
		return
	}
	engine, err := h.sessions.Reload(r.Context(), websiteID)
	if err != nil {
		h.logger.Error("Failed to reload graph",
			zap.String("websiteID", websiteID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, snapshotResponse(engine, engine.Snapshot()))
}

// applyLayoutRequest selects a layout algorithm
type applyLayoutRequest struct {
	Algorithm string `json:"algorithm" validate:"required,oneof=hierarchical circular force_directed grid"`
}

// ApplyLayout handles POST /websites/{websiteID}/graph/layout
func (h *GraphHandler) ApplyLayout(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	var req applyLayoutRequest
	if err := common.ParseJSONBody(r, &req, 4096); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	snapshot, err := engine.ApplyLayout(r.Context(), req.Algorithm)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, snapshotResponse(engine, snapshot))
}

// Undo handles POST /websites/{websiteID}/graph/undo
func (h *GraphHandler) Undo(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	snapshot, _ := engine.Undo(r.Context())
	common.RespondJSON(w, http.StatusOK, snapshotResponse(engine, snapshot))
}

// Redo handles POST /websites/{websiteID}/graph/redo
func (h *GraphHandler) Redo(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	snapshot, _ := engine.Redo(r.Context())
	common.RespondJSON(w, http.StatusOK, snapshotResponse(engine, snapshot))
}

// moveNodeRequest repositions a node on drag release. NodeType is accepted
// for wire compatibility with the persistence schema; node ids are unique
// across kinds so the engine resolves the node by id alone.
type moveNodeRequest struct {
	NodeID   string  `json:"node_id" validate:"required"`
	NodeType string  `json:"node_type" validate:"omitempty,oneof=page cluster"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// MoveNode handles PUT /websites/{websiteID}/graph/positions
func (h *GraphHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	var req moveNodeRequest
	if err := common.ParseJSONBody(r, &req, 4096); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := engine.MoveNode(r.Context(), req.NodeID, req.X, req.Y); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, snapshotResponse(engine, engine.Snapshot()))
}

// createLinkRequest draws a new internal link between two pages
type createLinkRequest struct {
	SourceID string `json:"source_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required,nefield=SourceID"`
}

// CreateLink handles POST /websites/{websiteID}/graph/links
func (h *GraphHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	var req createLinkRequest
	if err := common.ParseJSONBody(r, &req, 4096); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	edge, err := engine.CreateLink(r.Context(), req.SourceID, req.TargetID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, edge)
}

func (h *GraphHandler) engine(w http.ResponseWriter, r *http.Request) (*services.SitemapEngine, bool) {
	websiteID := chi.URLParam(r, "websiteID")
	if websiteID == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "website ID is required")
		return nil, false
	}

	engine, err := h.sessions.Engine(r.Context(), websiteID)
	if err != nil {
		h.logger.Error("Failed to load website graph",
			zap.String("websiteID", websiteID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return nil, false
	}
	return engine, true
}

package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/opskpi/tattrack/internal/domain"
	"github.com/opskpi/tattrack/internal/handler/dto"
	"github.com/opskpi/tattrack/internal/middleware"
)

// handleListAgents lists the workspace agent roster.
// @Summary List agents
// @Description Lists all agents registered in the workspace, oldest first
// @Tags rosters
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Success 200 {object} dto.AgentsListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /agents [get]
func (h *Handler) handleListAgents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspace, err := middleware.GetWorkspaceFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusBadRequest, "WORKSPACE_REQUIRED", "workspace email required")
		return
	}

	agents, err := h.agentRepo.ListByWorkspace(ctx, workspace)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	resp := dto.AgentsListResponse{Agents: make([]dto.AgentResponse, len(agents))}
	for i := range agents {
		resp.Agents[i] = dto.ToAgentResponse(&agents[i])
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleCreateAgent adds an agent to the workspace roster.
// @Summary Create an agent
// @Description Adds an agent to the workspace roster; names are unique per workspace
// @Tags rosters
// @Accept json
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Param request body dto.CreateAgentRequest true "Agent creation request"
// @Success 201 {object} dto.AgentResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /agents [post]
func (h *Handler) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspace, err := middleware.GetWorkspaceFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusBadRequest, "WORKSPACE_REQUIRED", "workspace email required")
		return
	}

	var req dto.CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "agent name is required")
		return
	}

	agent := &domain.Agent{WorkspaceEmail: workspace, Name: name}
	if err := h.agentRepo.Create(ctx, agent); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAgentResponse(agent))
}

// handleDeleteAgent removes an agent from the roster.
// @Summary Delete an agent
// @Description Removes an agent; historical transactions keep the agent name
// @Tags rosters
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Param id path string true "Agent ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /agents/{id} [delete]
func (h *Handler) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := extractID(w, r)
	if !ok {
		return
	}

	if err := h.agentRepo.Delete(ctx, id); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListDocTypes lists the workspace document-type catalog.
// @Summary List doc types
// @Description Lists all document types in the workspace catalog, oldest first
// @Tags rosters
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Success 200 {object} dto.DocTypesListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /doctypes [get]
func (h *Handler) handleListDocTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspace, err := middleware.GetWorkspaceFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusBadRequest, "WORKSPACE_REQUIRED", "workspace email required")
		return
	}

	docTypes, err := h.docTypeRepo.ListByWorkspace(ctx, workspace)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	resp := dto.DocTypesListResponse{DocTypes: make([]dto.DocTypeResponse, len(docTypes))}
	for i := range docTypes {
		resp.DocTypes[i] = dto.ToDocTypeResponse(&docTypes[i])
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleCreateDocType adds a document type to the catalog.
// @Summary Create a doc type
// @Description Adds a document type to the workspace catalog; names are unique per workspace
// @Tags rosters
// @Accept json
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Param request body dto.CreateDocTypeRequest true "Doc type creation request"
// @Success 201 {object} dto.DocTypeResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /doctypes [post]
func (h *Handler) handleCreateDocType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspace, err := middleware.GetWorkspaceFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusBadRequest, "WORKSPACE_REQUIRED", "workspace email required")
		return
	}

	var req dto.CreateDocTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "doc type name is required")
		return
	}

	docType := &domain.DocType{WorkspaceEmail: workspace, Name: name}
	if err := h.docTypeRepo.Create(ctx, docType); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToDocTypeResponse(docType))
}

// handleDeleteDocType removes a document type from the catalog.
// @Summary Delete a doc type
// @Description Removes a doc type; transactions referencing the name stay valid
// @Tags rosters
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Param id path string true "Doc type ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /doctypes/{id} [delete]
func (h *Handler) handleDeleteDocType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := extractID(w, r)
	if !ok {
		return
	}

	if err := h.docTypeRepo.Delete(ctx, id); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

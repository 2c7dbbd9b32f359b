package server

import (
	"encoding/json"
	"net/http"

	"github.com/roach88/querybuilder/internal/builder"
	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/drag"
	"github.com/roach88/querybuilder/internal/tree"
)

const (
	codeBadRequest    = "BAD_REQUEST"
	codeInvalidConfig = config.ErrCodeInvalidConfig
	codeInvalidTree   = config.ErrCodeInvalidTree
)

type validateRequest struct {
	// Raw so that an absent field and an explicit null differ.
	Config json.RawMessage `json:"config"`
	Value  json.RawMessage `json:"value"`
}

type pruneRequest struct {
	Value    any  `json:"value"`
	MaxDepth *int `json:"max_depth"`
}

type pruneResponse struct {
	Value   tree.Node `json:"value"`
	Changed bool      `json:"changed"`
}

type applyRequest struct {
	Config  any              `json:"config"`
	Value   any              `json:"value"`
	Actions []builder.Action `json:"actions"`
}

type canAcceptRequest struct {
	Node        any  `json:"node"`
	TargetDepth int  `json:"target_depth"`
	MaxDepth    *int `json:"max_depth"`
}

type canAcceptResponse struct {
	Accept bool `json:"accept"`
	Height int  `json:"height"`
}

// handleValidate reports on whichever of config and value were sent.
// Invalid input is a normal 200 response; only a malformed request is not.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Config == nil && req.Value == nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "config or value is required")
		return
	}

	report := config.NewReport()
	if req.Config != nil {
		var raw any
		_ = json.Unmarshal(req.Config, &raw)
		report.CheckConfig(raw)
	}
	if req.Value != nil {
		var raw any
		_ = json.Unmarshal(req.Value, &raw)
		report.CheckValue(raw)
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePrune(w http.ResponseWriter, r *http.Request) {
	var req pruneRequest
	if !decode(w, r, &req) {
		return
	}
	if req.MaxDepth == nil || *req.MaxDepth < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "max_depth must be a non-negative integer")
		return
	}
	n, err := tree.Parse(req.Value)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeInvalidTree, err.Error())
		return
	}

	pruned, changed := tree.PruneChanged(n, *req.MaxDepth)
	if changed {
		s.logger.Info("value pruned to max depth", "max_depth", *req.MaxDepth)
	}
	writeJSON(w, http.StatusOK, pruneResponse{Value: pruned, Changed: changed})
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if !decode(w, r, &req) {
		return
	}

	var cfg config.Config
	if req.Config != nil {
		c, err := config.Decode(req.Config)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, codeInvalidConfig, err.Error())
			return
		}
		cfg = c
	}

	var value tree.Node
	if req.Value != nil {
		n, err := tree.Parse(req.Value)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, codeInvalidTree, err.Error())
			return
		}
		if n.Kind() != tree.KindRuleSet {
			writeError(w, http.StatusUnprocessableEntity, codeInvalidTree, "root must be a ruleset, got a rule")
			return
		}
		value = n
	}

	res := builder.Apply(cfg, value, req.Actions,
		builder.WithLogger(s.logger),
		builder.WithObserver(s.metrics),
	)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCanAccept(w http.ResponseWriter, r *http.Request) {
	var req canAcceptRequest
	if !decode(w, r, &req) {
		return
	}
	if req.TargetDepth < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "target_depth must be non-negative")
		return
	}
	n, err := tree.Parse(req.Node)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeInvalidTree, err.Error())
		return
	}

	accept := drag.CanAccept(n, req.TargetDepth, req.MaxDepth)
	s.metrics.DropChecked(accept)
	writeJSON(w, http.StatusOK, canAcceptResponse{Accept: accept, Height: tree.Height(n)})
}

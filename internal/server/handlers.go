package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/emissions"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
	"github.com/aureliashabi/A21-Carbon-Calculator/pkg/version"
)

// inputSampleLimit bounds the echoed input in debug responses.
const inputSampleLimit = 200

type extractRequest struct {
	Text string `json:"text"`
}

type calculateRequest struct {
	Shipments   []manifest.ShipmentRecord `json:"shipments"`
	WeightKG    float64                   `json:"weight_kg"`
	RoadSubtype string                    `json:"road_subtype"`
	AirSubtype  string                    `json:"air_subtype"`
	SeaSubtype  string                    `json:"sea_subtype"`
}

type insightsRequest struct {
	Rows         []emissions.ComparisonRow `json:"rows"`
	TopN         int                       `json:"top_n"`
	MinPctSaving float64                   `json:"min_pct_saving"`
}

type debugLine struct {
	RawLine   string   `json:"raw_line"`
	TabParts  []string `json:"tab_parts"`
	PartCount int      `json:"part_count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	enrichment := "disabled"
	if n := s.engine.Normalizer(); n != nil {
		enrichment = n.Name()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"service":    "carboncalc",
		"version":    version.GetVersion(),
		"enrichment": enrichment,
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.engine.Extract(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if len(result.Shipments) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"error":            "No valid shipment data found",
			"parsed_shipments": []manifest.ShipmentRecord{},
			"notes":            "Could not parse any shipment data from input",
		})
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleDebugParse parses without resolving distances and echoes how
// each input line splits on tabs.
func (s *Server) handleDebugParse(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	parsed := manifest.Parse(r.Context(), req.Text)

	rawDebug := []debugLine{}
	for _, line := range strings.Split(strings.TrimSpace(req.Text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, "Ref No") ||
			strings.Contains(line, "Pickup From") ||
			strings.Contains(line, "Origin") {
			continue
		}
		parts := strings.Split(line, "\t")
		rawDebug = append(rawDebug, debugLine{
			RawLine:   line,
			TabParts:  parts,
			PartCount: len(parts),
		})
	}

	sample := req.Text
	if len(sample) > inputSampleLimit {
		sample = sample[:inputSampleLimit] + "..."
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"parsed_shipments":  parsed.Shipments,
		"raw_parsing_debug": rawDebug,
		"input_sample":      sample,
	})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	params := emissions.Params{
		WeightKG:    req.WeightKG,
		RoadSubtype: req.RoadSubtype,
		AirSubtype:  req.AirSubtype,
		SeaSubtype:  req.SeaSubtype,
	}
	result := s.engine.Calculate(r.Context(), req.Shipments, params)
	s.writeJSON(w, http.StatusOK, result)
}

// handleInsights summarizes a precomputed scenario comparison table
// into portfolio and per-shipment switch recommendations.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	report, err := emissions.MakeInsights(req.Rows, emissions.InsightsOptions{
		TopN:         req.TopN,
		MinPctSaving: req.MinPctSaving,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"mdvrp-service/internal/api/dto"
	"mdvrp-service/internal/domain"
	"mdvrp-service/internal/loader"
	"mdvrp-service/internal/ports"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// InstanceService is the subset of services.InstanceService the handlers use.
type InstanceService interface {
	Import(ctx context.Context, path string) (*domain.InstanceRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.InstanceRecord, error)
	List(ctx context.Context) ([]*domain.InstanceRecord, error)
}

// InstanceHandler exposes instance import and retrieval endpoints.
// Import paths are resolved relative to DataDir and may not leave it.
type InstanceHandler struct {
	Service InstanceService
	DataDir string
}

// Collection serves GET (list) and POST (import) on /instances.
func (h *InstanceHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.importInstance(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *InstanceHandler) list(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListInstancesResponse{
		Instances: make([]dto.InstanceSummaryResponse, 0, len(recs)),
	}
	for _, rec := range recs {
		res.Instances = append(res.Instances, summaryResponse(rec))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *InstanceHandler) importInstance(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportInstanceRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	path, err := resolveDataPath(h.DataDir, req.Path)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.Service.Import(r.Context(), path)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, instanceResponse(rec))
}

// Get serves GET /instances/{id}.
func (h *InstanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid instance id")
		return
	}

	rec, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, instanceResponse(rec))
}

func resolveDataPath(root, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("path is required")
	}
	if !filepath.IsLocal(name) {
		return "", errors.New("path must be relative to the data directory")
	}
	return filepath.Join(root, name), nil
}

// writeServiceError maps service failures to HTTP statuses.
// Parse failures are reported to the client without the server-side path.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var parseErr *loader.ParseError

	switch {
	case errors.Is(err, ports.ErrInstanceNotFound):
		writeError(w, r, http.StatusNotFound, "instance not found")
	case errors.Is(err, fs.ErrNotExist):
		writeError(w, r, http.StatusNotFound, "instance file not found")
	case errors.Is(err, loader.ErrFormat), errors.Is(err, loader.ErrEndOfInput):
		msg := "invalid instance file"
		if errors.As(err, &parseErr) {
			msg = parseErr.Error()
		}
		writeError(w, r, http.StatusUnprocessableEntity, msg)
	default:
		slog.ErrorContext(r.Context(), "instance request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func summaryResponse(rec *domain.InstanceRecord) dto.InstanceSummaryResponse {
	return dto.InstanceSummaryResponse{
		ID:                  rec.ID.String(),
		Name:                rec.Name,
		Fingerprint:         rec.Fingerprint,
		LoadedAt:            rec.LoadedAt,
		MaxVehiclesPerDepot: rec.Summary.MaxVehiclesPerDepot,
		NumDepots:           rec.Summary.NumDepots,
		NumCustomers:        rec.Summary.NumCustomers,
		TotalDemand:         rec.Summary.TotalDemand,
		TotalCapacity:       rec.Summary.TotalCapacity,
	}
}

func instanceResponse(rec *domain.InstanceRecord) dto.InstanceResponse {
	res := dto.InstanceResponse{
		InstanceSummaryResponse: summaryResponse(rec),
		Depots:                  []dto.DepotResponse{},
		Customers:               []dto.CustomerResponse{},
	}
	if rec.Instance == nil {
		return res
	}

	for i, d := range rec.Instance.Depots {
		res.Depots = append(res.Depots, dto.DepotResponse{
			Index:            i,
			MaxVehicles:      d.MaxVehicles,
			MaxRouteDuration: d.MaxRouteDuration,
			DurationLimited:  d.HasDurationLimit(),
			MaxLoad:          d.MaxLoad,
			X:                d.X,
			Y:                d.Y,
		})
	}
	for i, c := range rec.Instance.Customers {
		res.Customers = append(res.Customers, dto.CustomerResponse{
			Index:           i,
			X:               c.X,
			Y:               c.Y,
			ServiceDuration: c.ServiceDuration,
			Demand:          c.Demand,
		})
	}
	return res
}

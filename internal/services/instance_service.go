package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mdvrp-service/internal/domain"
	"mdvrp-service/internal/platform/obs"
	"mdvrp-service/internal/ports"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InstanceService imports instance files and serves the stored results.
//
// Imports are keyed by file content: importing the same bytes twice returns
// the first record. The cache is optional and only ever saves a parse; a
// failing cache is logged and otherwise ignored.
type InstanceService struct {
	loader ports.InstanceLoader
	repo   ports.InstanceRepository
	cache  ports.InstanceCache
	logger *slog.Logger
	now    func() time.Time
}

// NewInstanceService wires the service. cache may be nil.
func NewInstanceService(
	loader ports.InstanceLoader,
	repo ports.InstanceRepository,
	cache ports.InstanceCache,
	logger *slog.Logger,
) *InstanceService {
	return &InstanceService{
		loader: loader,
		repo:   repo,
		cache:  cache,
		logger: logger.With("component", "instance_service"),
		now:    time.Now,
	}
}

// Import loads the instance file at path and stores it.
func (s *InstanceService) Import(ctx context.Context, path string) (_ *domain.InstanceRecord, err error) {
	defer obs.Time(ctx, "instance.Import")(&err)

	fingerprint, err := Fingerprint(path)
	if err != nil {
		return nil, fmt.Errorf("import instance: %w", err)
	}

	existing, err := s.repo.GetByFingerprint(ctx, fingerprint)
	if err == nil {
		s.logger.Info("instance already imported", "path", path, "id", existing.ID)
		return existing, nil
	}
	if !errors.Is(err, ports.ErrInstanceNotFound) {
		return nil, fmt.Errorf("import instance: lookup fingerprint: %w", err)
	}

	inst, err := s.load(ctx, path, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("import instance: %w", err)
	}

	rec := domain.NewInstanceRecord(filepath.Base(path), fingerprint, inst, s.now().UTC())
	if err := s.repo.Save(ctx, rec); err != nil {
		// Lost a race with a concurrent import of the same content.
		if errors.Is(err, ports.ErrInstanceExists) {
			if existing, gerr := s.repo.GetByFingerprint(ctx, fingerprint); gerr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("import instance: save: %w", err)
	}

	s.logger.Info("instance imported",
		"id", rec.ID,
		"name", rec.Name,
		"depots", rec.Summary.NumDepots,
		"customers", rec.Summary.NumCustomers,
	)
	return rec, nil
}

// load parses path unless the cache already holds the parse for fingerprint.
func (s *InstanceService) load(ctx context.Context, path, fingerprint string) (*domain.ProblemInstance, error) {
	if s.cache != nil {
		inst, err := s.cache.Get(ctx, fingerprint)
		if err != nil {
			s.logger.Warn("instance cache get failed", "fingerprint", fingerprint, "error", err)
		} else if inst != nil {
			return inst, nil
		}
	}

	inst, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, fingerprint, inst); err != nil {
			s.logger.Warn("instance cache put failed", "fingerprint", fingerprint, "error", err)
		}
	}
	return inst, nil
}

// ImportDir imports every regular, non-hidden file directly inside dir in
// name order. A file that fails to import does not stop the others; all
// failures are returned joined.
func (s *InstanceService) ImportDir(ctx context.Context, dir string) ([]*domain.InstanceRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("import dir %q: %w", dir, err)
	}

	var (
		records []*domain.InstanceRecord
		errs    []error
	)
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return records, err
		}

		rec, err := s.Import(ctx, filepath.Join(dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}

	return records, errors.Join(errs...)
}

func (s *InstanceService) Get(ctx context.Context, id uuid.UUID) (*domain.InstanceRecord, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get instance: %w", err)
	}
	return rec, nil
}

func (s *InstanceService) List(ctx context.Context) ([]*domain.InstanceRecord, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	return recs, nil
}

package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"mdvrp-service/internal/domain"
)

const (
	sectionOpen             = "open"
	sectionHeader           = "header"
	sectionDepotCapacity    = "depot capacity"
	sectionCustomer         = "customer"
	sectionDepotCoordinates = "depot coordinates"
)

// Field counts per record. Records may carry trailing fields (time windows,
// depot assignments in richer variants); those are read and ignored.
const (
	headerFields           = 3
	depotCapacityFields    = 2
	customerFields         = 5
	depotCoordinatesFields = 3
)

// Upper bound for slice preallocation so a bogus header cannot force a huge allocation.
const maxPrealloc = 4096

const maxLineBytes = 1 << 20

type depotCapacity struct {
	maxRouteDuration int
	maxLoad          int
}

// Load reads the instance file at path.
//
// The file is streamed line by line and closed before Load returns. On any
// failure no instance is returned.
func Load(path string) (*domain.ProblemInstance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, &ParseError{Kind: ErrIO, Section: sectionOpen, Err: err})
	}
	defer f.Close()

	inst, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return inst, nil
}

// Parse reads an instance from r.
//
// Layout:
//
//	maxVehiclesPerDepot numCustomers numDepots
//	maxRouteDuration maxLoad          (numDepots lines)
//	id x y serviceDuration demand ... (numCustomers lines)
//	id x y ...                        (numDepots lines)
//
// The i-th capacity line and the i-th coordinate line describe the same depot.
func Parse(r io.Reader) (*domain.ProblemInstance, error) {
	lr := newLineReader(r)

	fields, err := lr.next(sectionHeader)
	if err != nil {
		return nil, err
	}
	if len(fields) != headerFields {
		return nil, lr.formatError(sectionHeader, fmt.Errorf("want %d fields, got %d", headerFields, len(fields)))
	}
	header, err := lr.ints(sectionHeader, fields)
	if err != nil {
		return nil, err
	}

	maxVehicles, numCustomers, numDepots := header[0], header[1], header[2]
	if numCustomers < 0 {
		return nil, lr.formatError(sectionHeader, fmt.Errorf("negative customer count %d", numCustomers))
	}
	if numDepots < 0 {
		return nil, lr.formatError(sectionHeader, fmt.Errorf("negative depot count %d", numDepots))
	}

	capacities := make([]depotCapacity, 0, min(numDepots, maxPrealloc))
	for range numDepots {
		v, err := lr.record(sectionDepotCapacity, depotCapacityFields)
		if err != nil {
			return nil, err
		}
		capacities = append(capacities, depotCapacity{maxRouteDuration: v[0], maxLoad: v[1]})
	}

	customers := make([]domain.Customer, 0, min(numCustomers, maxPrealloc))
	for range numCustomers {
		v, err := lr.record(sectionCustomer, customerFields)
		if err != nil {
			return nil, err
		}
		customers = append(customers, domain.Customer{
			X:               v[1],
			Y:               v[2],
			ServiceDuration: v[3],
			Demand:          v[4],
		})
	}

	positions := make([]domain.Coordinates, 0, min(numDepots, maxPrealloc))
	for range numDepots {
		v, err := lr.record(sectionDepotCoordinates, depotCoordinatesFields)
		if err != nil {
			return nil, err
		}
		positions = append(positions, domain.Coordinates{X: v[1], Y: v[2]})
	}

	depots := make([]domain.Depot, 0, len(capacities))
	for i, c := range capacities {
		depots = append(depots, domain.Depot{
			MaxVehicles:      maxVehicles,
			MaxRouteDuration: c.maxRouteDuration,
			MaxLoad:          c.maxLoad,
			X:                positions[i].X,
			Y:                positions[i].Y,
		})
	}

	return &domain.ProblemInstance{
		MaxVehiclesPerDepot: maxVehicles,
		Depots:              depots,
		Customers:           customers,
	}, nil
}

type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &lineReader{sc: sc}
}

// next returns the whitespace-separated fields of the next line.
func (lr *lineReader) next(section string) ([]string, error) {
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return nil, &ParseError{Kind: ErrIO, Section: section, Line: lr.line + 1, Err: err}
		}
		return nil, &ParseError{Kind: ErrEndOfInput, Section: section, Line: lr.line + 1}
	}
	lr.line++
	return strings.Fields(lr.sc.Text()), nil
}

// record reads the next line and parses its first n fields as integers.
func (lr *lineReader) record(section string, n int) ([]int, error) {
	fields, err := lr.next(section)
	if err != nil {
		return nil, err
	}
	if len(fields) < n {
		return nil, lr.formatError(section, fmt.Errorf("want at least %d fields, got %d", n, len(fields)))
	}
	return lr.ints(section, fields[:n])
}

func (lr *lineReader) ints(section string, fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) {
				err = numErr.Err
			}
			return nil, lr.formatError(section, fmt.Errorf("field %d %q: %w", i+1, f, err))
		}
		out[i] = v
	}
	return out, nil
}

func (lr *lineReader) formatError(section string, err error) error {
	return &ParseError{Kind: ErrFormat, Section: section, Line: lr.line, Err: err}
}

// Loader wraps Load with structured logging.
type Loader struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Loader {
	return &Loader{
		logger: logger.With("component", "instance_loader"),
	}
}

func (l *Loader) Load(path string) (*domain.ProblemInstance, error) {
	start := time.Now()
	l.logger.Debug("loading instance", "path", path)

	inst, err := Load(path)
	if err != nil {
		l.logger.Warn("instance load failed", "path", path, "error", err)
		return nil, err
	}

	l.logger.Info("loaded instance",
		"path", path,
		"depots", inst.NumDepots(),
		"customers", inst.NumCustomers(),
		"max_vehicles_per_depot", inst.MaxVehiclesPerDepot,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return inst, nil
}

package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mdvrp-service/internal/domain"
	"strings"

	"gopkg.in/yaml.v2"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatText is the line-oriented instance file format read by the loader.
	FormatText Format = "text"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("parse format %q: %w", s, ErrUnknownFormat)
	}
}

// Encode writes inst to w in the given format.
func Encode(w io.Writer, inst *domain.ProblemInstance, format Format) error {
	if inst == nil {
		return errors.New("encode instance: instance is nil")
	}

	if format == FormatText {
		if err := encodeText(w, inst); err != nil {
			return fmt.Errorf("encode instance: text: %w", err)
		}
		return nil
	}
	if err := encodeValue(w, inst, format); err != nil {
		return fmt.Errorf("encode instance: %w", err)
	}
	return nil
}

// EncodeSummary writes s to w as json or yaml.
func EncodeSummary(w io.Writer, s domain.InstanceSummary, format Format) error {
	if err := encodeValue(w, s, format); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

func encodeValue(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("json: %w", err)
		}
	case FormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("write yaml: %w", err)
		}
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	return nil
}

// encodeText writes the instance back in the loader's input layout.
// Customers are numbered from 1 and depots continue the numbering after the
// last customer, as in the common benchmark files.
func encodeText(w io.Writer, inst *domain.ProblemInstance) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d %d %d\n", inst.MaxVehiclesPerDepot, len(inst.Customers), len(inst.Depots))
	for _, d := range inst.Depots {
		fmt.Fprintf(bw, "%d %d\n", d.MaxRouteDuration, d.MaxLoad)
	}
	for i, c := range inst.Customers {
		fmt.Fprintf(bw, "%d %d %d %d %d\n", i+1, c.X, c.Y, c.ServiceDuration, c.Demand)
	}
	for i, d := range inst.Depots {
		fmt.Fprintf(bw, "%d %d %d\n", len(inst.Customers)+i+1, d.X, d.Y)
	}

	return bw.Flush()
}

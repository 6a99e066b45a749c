package ingestion

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"athens-property-lab/internal/domain"
)

// rawInput mirrors the loosely-typed wire shape of one listing record.
// Numeric fields may arrive as JSON numbers or display strings; both
// size spellings ("sqm" and "size") are accepted.
type rawInput struct {
	URL          string          `json:"url"`
	Price        json.RawMessage `json:"price"`
	Sqm          json.RawMessage `json:"sqm"`
	Size         json.RawMessage `json:"size"`
	EnergyClass  string          `json:"energy_class"`
	Neighborhood string          `json:"neighborhood"`
	Rooms        json.RawMessage `json:"rooms"`
	Floor        json.RawMessage `json:"floor"`
}

// DecodeRaw reads listing records into RawListings. The input is
// either a JSON array or newline-delimited JSON objects; both are
// produced by common export tools. Field values are carried over as
// strings verbatim; parsing and validation happen in the normalizer.
func DecodeRaw(r io.Reader, source domain.Source, collectedAt int64) ([]*domain.RawListing, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode raw listings: %w", err)
	}

	var raws []*domain.RawListing
	if delim, ok := tok.(json.Delim); ok && delim == '[' {
		for dec.More() {
			var in rawInput
			if err := dec.Decode(&in); err != nil {
				return nil, fmt.Errorf("decode raw listings: %w", err)
			}
			raws = append(raws, rawListingFromInput(in, source, collectedAt))
		}
		return raws, nil
	}

	// NDJSON: the first token opened an object. Re-decode it from the
	// buffered remainder together with the following records.
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode raw listings: expected array or object, got %v", tok)
	}
	dec = json.NewDecoder(io.MultiReader(strings.NewReader("{"), dec.Buffered(), r))
	for {
		var in rawInput
		if err := dec.Decode(&in); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("decode raw listings: %w", err)
		}
		raws = append(raws, rawListingFromInput(in, source, collectedAt))
	}
	return raws, nil
}

// DecodeRawRecord reads a single JSON listing record, as delivered by
// the live feed.
func DecodeRawRecord(data []byte, source domain.Source, collectedAt int64) (*domain.RawListing, error) {
	var in rawInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode raw listing record: %w", err)
	}
	return rawListingFromInput(in, source, collectedAt), nil
}

func rawListingFromInput(in rawInput, source domain.Source, collectedAt int64) *domain.RawListing {
	size := in.Sqm
	if len(size) == 0 {
		size = in.Size
	}
	return &domain.RawListing{
		URL:          in.URL,
		Price:        rawString(in.Price),
		Size:         rawString(size),
		EnergyClass:  in.EnergyClass,
		Neighborhood: in.Neighborhood,
		Rooms:        rawString(in.Rooms),
		Floor:        rawString(in.Floor),
		Source:       source,
		CollectedAt:  collectedAt,
	}
}

// rawString renders a JSON scalar as its string content: quoted strings
// are unquoted, numbers kept verbatim, everything else dropped.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		s, err := strconv.Unquote(string(raw))
		if err != nil {
			return ""
		}
		return s
	}
	if raw[0] == '{' || raw[0] == '[' || string(raw) == "null" {
		return ""
	}
	return string(raw)
}

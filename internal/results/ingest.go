package results

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"escrutinio/internal/logging"
)

// snapshotDoc mirrors the scraper's cache document. Region bodies stay
// raw so one malformed region cannot abort the whole parse.
type snapshotDoc struct {
	CachedAt        string                     `json:"cached_at"`
	GranularityMode string                     `json:"granularity_mode"`
	Departments     map[string]json.RawMessage `json:"departments"`
}

// regionDoc is the upstream leaf shape (§6 of the interface contract):
// actas_percentage plus a candidates array, with an optional municipios
// nesting on department records.
type regionDoc struct {
	ActasPercentage float64                    `json:"actas_percentage"`
	Candidates      []json.RawMessage          `json:"candidates"`
	Municipios      map[string]json.RawMessage `json:"municipios"`
}

type candidateDoc struct {
	Name  string      `json:"name"`
	Votes json.Number `json:"votes"`
}

// LoadFromPath reads and parses a snapshot document from disk.
func LoadFromPath(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(data)
}

// Parse decodes a snapshot document. Upstream scraping is noisy, so
// decoding is tolerant: a candidate entry that fails to decode is
// recovered as a zero-vote row with a best-effort name (or skipped when
// not even a name survives), and only counted on Snapshot.Malformed.
// Snapshot-level structure errors are still fatal.
func Parse(data []byte) (*Snapshot, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if doc.Departments == nil {
		return nil, fmt.Errorf("parse snapshot: missing departments mapping")
	}

	mode, err := ParseGranularity(doc.GranularityMode)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	logger := logging.New("ingest")
	snap := &Snapshot{
		Regions:  make(map[string]*Region, len(doc.Departments)),
		Mode:     mode,
		CachedAt: doc.CachedAt,
	}

	for name, raw := range doc.Departments {
		if name == RawDataKey {
			// Pass-through blob, not a region. Nacional does decode as a
			// region; Leaves skips it instead so it stays inspectable.
			continue
		}
		region, malformed := parseRegion(name, raw)
		if region == nil {
			logger.Warn("region body not decodable, dropped", "region", name)
			snap.Malformed++
			continue
		}
		snap.Malformed += malformed
		snap.Regions[name] = region
	}

	return snap, nil
}

// parseRegion decodes one region body plus its municipality children.
// Returns nil when the body itself is not an object.
func parseRegion(name string, raw json.RawMessage) (*Region, int) {
	var doc regionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, 0
	}

	region := &Region{
		Name:         name,
		Completeness: doc.ActasPercentage,
	}

	malformed := 0
	region.Candidates, malformed = parseCandidates(doc.Candidates)

	if len(doc.Municipios) > 0 {
		region.Children = make(map[string]*Region, len(doc.Municipios))
		for childName, childRaw := range doc.Municipios {
			child, m := parseRegion(childName, childRaw)
			if child == nil {
				malformed++
				continue
			}
			malformed += m
			region.Children[childName] = child
		}
	}

	return region, malformed
}

// parseCandidates decodes tally rows one by one. Duplicate spellings of
// the same normalized name are merged into the first row seen, so a
// stray re-spelling upstream cannot split one candidate into two.
func parseCandidates(rows []json.RawMessage) ([]Candidate, int) {
	candidates := make([]Candidate, 0, len(rows))
	index := make(map[string]int, len(rows))
	malformed := 0

	for _, raw := range rows {
		var doc candidateDoc
		name := ""
		var votes int64
		if err := json.Unmarshal(raw, &doc); err != nil {
			// Best-effort: salvage the name alone.
			var nameOnly struct {
				Name string `json:"name"`
			}
			_ = json.Unmarshal(raw, &nameOnly)
			name = nameOnly.Name
			malformed++
		} else {
			name = doc.Name
			if doc.Votes == "" {
				// Missing count: recover the row at zero votes.
				malformed++
			} else {
				v, err := doc.Votes.Int64()
				if err != nil {
					// Some exports carry counts as floats.
					if f, ferr := doc.Votes.Float64(); ferr == nil {
						v = int64(f)
					} else {
						malformed++
					}
				}
				if v < 0 {
					malformed++
					v = 0
				}
				votes = v
			}
		}

		key := NormalizeName(name)
		if key == "" {
			// Nothing to join on; the row cannot participate anywhere.
			malformed++
			continue
		}
		if i, ok := index[key]; ok {
			candidates[i].Votes += votes
			continue
		}
		index[key] = len(candidates)
		candidates = append(candidates, Candidate{
			Name:  strings.TrimSpace(name),
			Key:   key,
			Votes: votes,
		})
	}

	return candidates, malformed
}

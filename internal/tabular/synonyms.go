package tabular

import (
	"os"

	"fjacquet/paypal-sync/internal/syncerror"

	"gopkg.in/yaml.v3"
)

// LoadSynonyms reads a YAML synonym override file mapping semantic field
// names to candidate column lists, e.g.
//
//	time: [booking_time, posted_at]
//	payer: [counterparty]
//
// Fields absent from the file keep their defaults.
func LoadSynonyms(path string) (map[Field][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &syncerror.UnusableInputError{Path: path, Reason: err.Error()}
	}

	raw := map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &syncerror.UnusableInputError{Path: path, Reason: "invalid YAML: " + err.Error()}
	}

	out := make(map[Field][]string, len(raw))
	for name, candidates := range raw {
		field := Field(NormalizeName(name))
		if _, known := DefaultSynonyms[field]; !known {
			log.WithField("field", name).Warn("Ignoring unknown semantic field in synonyms file")
			continue
		}
		normalized := make([]string, 0, len(candidates))
		for _, c := range candidates {
			normalized = append(normalized, NormalizeName(c))
		}
		out[field] = normalized
	}
	return out, nil
}

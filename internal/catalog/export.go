package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"stratboard/internal/domain"
)

// ConfigExport is the canonical export structure for a template's
// shareable configuration. The field order and key set are stable;
// byte-for-byte determinism is not guaranteed (ExportedAt varies).
type ConfigExport struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Version    string        `json:"version"`
	Config     domain.Config `json:"config"`
	Rules      domain.Rules  `json:"rules"`
	ExportedAt time.Time     `json:"exportedAt"`
}

// ExportConfig serializes the shareable configuration of the template
// with the given id as indented JSON, or fails with ErrTemplateNotFound.
func (r *Registry) ExportConfig(id string) (string, error) {
	t, ok := r.byID[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}

	out := ConfigExport{
		ID:         t.ID,
		Name:       t.Name,
		Version:    t.Version,
		Config:     t.Config,
		Rules:      t.Rules,
		ExportedAt: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling export for %s: %w", id, err)
	}
	return string(data), nil
}

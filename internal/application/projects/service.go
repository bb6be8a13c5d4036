package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"flipforma-backend/internal/application/proforma"
	"flipforma-backend/internal/domain"
	"flipforma-backend/internal/infrastructure/storage"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultListPrefix matches both generated id shapes (project_<ms> and project:<name>:<ms>).
	DefaultListPrefix = "project"
	// MaxListed caps how many projects List returns.
	MaxListed = 200
)

var (
	ErrProjectNotFound    = errors.New("Project not found")
	ErrMalformedProject   = errors.New("Project data is malformed")
	ErrUnsupportedVersion = errors.New("Project version is not supported")
	ErrNameRequired       = errors.New("Project name is required")
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	unsafeID   = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slug reduces a project name to lowercase ASCII letters, digits and single dashes, so ids built
// from it route without escaping. A name with none of those becomes "untitled".
func Slug(name string) string {
	slug := strings.Trim(unsafeID.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}

type Service struct {
	Store storage.Store
	Now   func() time.Time
}

func NewService(store storage.Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Save upserts p, generating a project_<ms> id when p has none. The project-level name
// follows the one on the inputs form.
func (s *Service) Save(ctx context.Context, p domain.Project) (domain.Project, error) {
	now := s.now()
	if p.ID == "" {
		p.ID = "project_" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	if p.Inputs.ProjectName != "" {
		p.ProjectName = p.Inputs.ProjectName
	}
	p.Version = domain.ProjectSchemaVersion
	p.SavedAt = &now
	if err := s.put(ctx, p); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

// SaveAs stores p under a new id derived from name, leaving any previous record alone.
func (s *Service) SaveAs(ctx context.Context, name string, p domain.Project) (domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, ErrNameRequired
	}
	now := s.now()
	p.ID = fmt.Sprintf("project:%s:%d", Slug(name), now.UnixMilli())
	p.ProjectName = name
	p.Inputs.ProjectName = name
	p.Version = domain.ProjectSchemaVersion
	p.SavedAt = &now
	if err := s.put(ctx, p); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (s *Service) Load(ctx context.Context, id string) (domain.Project, error) {
	raw, err := s.Store.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	if err != nil {
		return domain.Project{}, fmt.Errorf("loading project %s: %w", id, err)
	}
	p, err := decode([]byte(raw))
	if err != nil {
		return domain.Project{}, err
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}

// List returns stored projects whose id starts with prefix, newest first.
// Entries that fail to decode are logged and skipped.
func (s *Service) List(ctx context.Context, prefix string) ([]domain.Project, error) {
	if prefix == "" {
		prefix = DefaultListPrefix
	}
	keys, err := s.Store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	out := make([]domain.Project, 0, len(keys))
	for _, key := range keys {
		p, err := s.Load(ctx, key)
		if err != nil {
			if errors.Is(err, ErrProjectNotFound) {
				continue
			}
			log.Warn().Err(err).Str("key", key).Msg("Skipping unreadable project")
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].SavedAt, out[j].SavedAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	if len(out) > MaxListed {
		out = out[:MaxListed]
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Store.Remove(ctx, id); err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	return nil
}

// Export renders a stored project as an indented, id-less document and the file name to offer it under.
func (s *Service) Export(ctx context.Context, id string) ([]byte, string, error) {
	p, err := s.Load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	now := s.now()
	p.ID = ""
	p.ExportedAt = &now
	body, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return body, ExportFileName(p.Name()), nil
}

// ExportFileName turns a project name into a download name: whitespace runs become '-'.
func ExportFileName(name string) string {
	if name == "" {
		name = "project"
	}
	return whitespace.ReplaceAllString(name, "-") + ".json"
}

// ParseDocument reads an exported project document. A section that is missing or null keeps the
// default draft's value; a present section replaces it whole, so its elements never inherit defaults.
func ParseDocument(blob []byte) (domain.Project, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.Project{}, fmt.Errorf("%w: expected a JSON object", ErrMalformedProject)
	}
	var doc struct {
		domain.Project
		Inputs           json.RawMessage `json:"inputs"`
		RenovationItems  json.RawMessage `json:"renovationItems"`
		FinancingSources json.RawMessage `json:"financingSources"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return domain.Project{}, fmt.Errorf("%w: %v", ErrMalformedProject, err)
	}
	if err := checkVersion(doc.Version); err != nil {
		return domain.Project{}, err
	}

	draft := domain.NewDraft()
	p := doc.Project
	p.Inputs = draft.Inputs
	p.RenovationItems = draft.RenovationItems
	p.FinancingSources = draft.FinancingSources
	if err := section(doc.Inputs, &p.Inputs); err != nil {
		return domain.Project{}, err
	}
	if err := section(doc.RenovationItems, &p.RenovationItems); err != nil {
		return domain.Project{}, err
	}
	if err := section(doc.FinancingSources, &p.FinancingSources); err != nil {
		return domain.Project{}, err
	}

	if p.ProjectName != "" && (!present(doc.Inputs) || p.Inputs.ProjectName == "") {
		p.Inputs.ProjectName = p.ProjectName
	}
	return p, nil
}

// section decodes raw into a fresh value and stores it in dst, leaving dst alone when raw is absent.
func section[T any](raw json.RawMessage, dst *T) error {
	if !present(raw) {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedProject, err)
	}
	*dst = v
	return nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// Import saves an exported document as a new project.
func (s *Service) Import(ctx context.Context, blob []byte) (domain.Project, error) {
	p, err := ParseDocument(blob)
	if err != nil {
		return domain.Project{}, err
	}
	now := s.now()
	p.ID = "project:imported:" + strconv.FormatInt(now.UnixMilli(), 10)
	p.ImportedAt = &now
	return s.Save(ctx, p)
}

func (s *Service) UpdateInputs(ctx context.Context, id string, patch proforma.InputsPatch) (domain.Project, error) {
	return s.edit(ctx, id, func(p *domain.Project) error {
		p.Inputs = patch.Apply(p.Inputs)
		return nil
	})
}

func (s *Service) AddFinancingSource(ctx context.Context, id string) (domain.Project, domain.FinancingSource, error) {
	var added domain.FinancingSource
	p, err := s.edit(ctx, id, func(p *domain.Project) error {
		p.FinancingSources, added = proforma.AddFinancingSource(p.FinancingSources)
		return nil
	})
	return p, added, err
}

func (s *Service) UpdateFinancingSource(ctx context.Context, id string, sourceID int, patch proforma.FinancingSourcePatch) (domain.Project, error) {
	return s.edit(ctx, id, func(p *domain.Project) (err error) {
		p.FinancingSources, err = proforma.UpdateFinancingSource(p.FinancingSources, sourceID, patch)
		return err
	})
}

func (s *Service) UpdateRenovationItem(ctx context.Context, id string, itemID int, patch proforma.RenovationItemPatch) (domain.Project, error) {
	return s.edit(ctx, id, func(p *domain.Project) (err error) {
		p.RenovationItems, err = proforma.UpdateRenovationItem(p.RenovationItems, itemID, patch)
		return err
	})
}

func (s *Service) AddMaterial(ctx context.Context, id string, itemID int) (domain.Project, error) {
	return s.edit(ctx, id, func(p *domain.Project) (err error) {
		p.RenovationItems, err = proforma.AddMaterial(p.RenovationItems, itemID)
		return err
	})
}

func (s *Service) UpdateMaterial(ctx context.Context, id string, itemID, idx int, patch proforma.MaterialPatch) (domain.Project, error) {
	return s.edit(ctx, id, func(p *domain.Project) (err error) {
		p.RenovationItems, err = proforma.UpdateMaterial(p.RenovationItems, itemID, idx, patch)
		return err
	})
}

func (s *Service) RemoveMaterial(ctx context.Context, id string, itemID, idx int) (domain.Project, error) {
	return s.edit(ctx, id, func(p *domain.Project) (err error) {
		p.RenovationItems, err = proforma.RemoveMaterial(p.RenovationItems, itemID, idx)
		return err
	})
}

// Compute loads a stored project and runs the pro forma over it.
func (s *Service) Compute(ctx context.Context, id string) (proforma.Result, domain.Project, error) {
	p, err := s.Load(ctx, id)
	if err != nil {
		return proforma.Result{}, domain.Project{}, err
	}
	return proforma.Compute(p.Inputs, p.RenovationItems, p.FinancingSources), p, nil
}

func (s *Service) edit(ctx context.Context, id string, fn func(*domain.Project) error) (domain.Project, error) {
	p, err := s.Load(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	if err := fn(&p); err != nil {
		return domain.Project{}, err
	}
	return s.Save(ctx, p)
}

func (s *Service) put(ctx context.Context, p domain.Project) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding project %s: %w", p.ID, err)
	}
	if err := s.Store.Set(ctx, p.ID, string(b)); err != nil {
		return fmt.Errorf("saving project %s: %w", p.ID, err)
	}
	return nil
}

func decode(raw []byte) (domain.Project, error) {
	var p domain.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Project{}, fmt.Errorf("%w: %v", ErrMalformedProject, err)
	}
	if err := checkVersion(p.Version); err != nil {
		return domain.Project{}, err
	}
	if p.Version == 0 {
		p.Version = 1
	}
	return p, nil
}

func checkVersion(v int) error {
	if v > domain.ProjectSchemaVersion || v < 0 {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	return nil
}

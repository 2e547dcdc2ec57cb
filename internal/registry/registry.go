// Package registry enforces the domain lifecycle: at most five active domains
// per user, core domains that can be disabled but never archived or deleted,
// and deletion only from the archive.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/logger"
	"github.com/julianstephens/compoundverse/internal/models"
	"github.com/julianstephens/compoundverse/internal/storage"
)

var (
	ErrDomainLimit    = fmt.Errorf("active domain limit of %d reached", constants.MaxActiveDomains)
	ErrCoreDomain     = errors.New("core domains cannot be archived or deleted")
	ErrDomainActive   = errors.New("only archived domains can be deleted")
	ErrNotArchived    = errors.New("domain is not archived")
	ErrArchived       = errors.New("domain is archived")
	ErrDomainExists   = errors.New("domain already exists")
	ErrInvalidDomain  = errors.New("invalid domain")
	ErrActionNotFound = errors.New("micro-action not found")
)

// Store is the slice of storage.Provider the registry needs.
type Store interface {
	AddDomain(models.Domain) error
	GetDomain(userID, id string) (models.Domain, error)
	GetDomains(userID string, includeArchived bool) ([]models.Domain, error)
	UpdateDomain(models.Domain) error
	DeleteDomain(userID, id string) error
}

// Registry serializes mutations per user so the active cap holds under
// concurrent requests.
type Registry struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(store Store) *Registry {
	return &Registry{store: store, now: time.Now, locks: make(map[string]*sync.Mutex)}
}

func (r *Registry) lock(userID string) func() {
	r.mu.Lock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// DomainInput describes a new custom domain. Actions are micro-action labels.
type DomainInput struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Icon      string   `json:"icon,omitempty"`
	Color     string   `json:"color,omitempty"`
	Actions   []string `json:"actions,omitempty"`
	XPEnabled *bool    `json:"xp_enabled,omitempty"`
}

// DomainEdit holds optional changes; nil fields are left alone.
type DomainEdit struct {
	Name      *string `json:"name,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	Color     *string `json:"color,omitempty"`
	XPEnabled *bool   `json:"xp_enabled,omitempty"`
	Position  *int    `json:"position,omitempty"`
}

// List returns the user's domains, seeding the core domains first.
func (r *Registry) List(userID string, includeArchived bool) ([]models.Domain, error) {
	if err := r.ensureCore(userID); err != nil {
		return nil, err
	}
	return r.store.GetDomains(userID, includeArchived)
}

func (r *Registry) Get(userID, id string) (models.Domain, error) {
	return r.store.GetDomain(userID, id)
}

// Active returns the domains that take part in today's check-in.
func (r *Registry) Active(userID string) ([]models.Domain, error) {
	if err := r.ensureCore(userID); err != nil {
		return nil, err
	}
	domains, err := r.store.GetDomains(userID, false)
	if err != nil {
		return nil, err
	}
	active := domains[:0]
	for _, d := range domains {
		if d.IsActive() {
			active = append(active, d)
		}
	}
	return active, nil
}

func (r *Registry) Add(userID string, in DomainInput) (models.Domain, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Domain{}, fmt.Errorf("%w: name is required", ErrInvalidDomain)
	}

	unlock := r.lock(userID)
	defer unlock()

	if _, err := r.seedCore(userID); err != nil {
		return models.Domain{}, err
	}
	all, err := r.store.GetDomains(userID, true)
	if err != nil {
		return models.Domain{}, fmt.Errorf("failed to load domains: %w", err)
	}
	if models.CountActive(all) >= constants.MaxActiveDomains {
		return models.Domain{}, ErrDomainLimit
	}

	id := in.ID
	if id == "" {
		id = slug(name)
	}
	if id == "" {
		id = uuid.NewString()
	}
	if slices.Contains(constants.CoreDomains, id) {
		return models.Domain{}, fmt.Errorf("%w: %s is reserved for a core domain", ErrDomainExists, id)
	}
	position := 0
	for _, d := range all {
		if d.ID == id {
			return models.Domain{}, fmt.Errorf("%w: %s", ErrDomainExists, id)
		}
		position = max(position, d.Position+1)
	}

	xpEnabled := true
	if in.XPEnabled != nil {
		xpEnabled = *in.XPEnabled
	}

	domain := models.Domain{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Icon:      in.Icon,
		Color:     in.Color,
		Actions:   []models.MicroAction{},
		XPEnabled: xpEnabled,
		Position:  position,
		CreatedAt: r.now(),
	}
	for _, label := range in.Actions {
		if _, err := appendAction(&domain, label); err != nil {
			return models.Domain{}, err
		}
	}

	if err := r.store.AddDomain(domain); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Domain{}, fmt.Errorf("%w: %s", ErrDomainExists, id)
		}
		return models.Domain{}, fmt.Errorf("failed to save domain: %w", err)
	}
	logger.Info("Domain added", "user", userID, "domain", id)
	return domain, nil
}

func (r *Registry) Archive(userID, id string) (models.Domain, error) {
	unlock := r.lock(userID)
	defer unlock()

	d, err := r.store.GetDomain(userID, id)
	if err != nil {
		return models.Domain{}, err
	}
	if d.IsCore {
		return models.Domain{}, ErrCoreDomain
	}
	if d.IsArchived() {
		return d, nil
	}

	now := r.now()
	d.ArchivedAt = &now
	d.Disabled = false
	return d, r.save(d)
}

func (r *Registry) Restore(userID, id string) (models.Domain, error) {
	unlock := r.lock(userID)
	defer unlock()

	d, err := r.store.GetDomain(userID, id)
	if err != nil {
		return models.Domain{}, err
	}
	if !d.IsArchived() {
		return models.Domain{}, ErrNotArchived
	}
	if err := r.ensureCapacity(userID); err != nil {
		return models.Domain{}, err
	}

	d.ArchivedAt = nil
	return d, r.save(d)
}

// Delete permanently removes an archived, non-core domain.
func (r *Registry) Delete(userID, id string) error {
	unlock := r.lock(userID)
	defer unlock()

	d, err := r.store.GetDomain(userID, id)
	if err != nil {
		return err
	}
	if d.IsCore {
		return ErrCoreDomain
	}
	if !d.IsArchived() {
		return ErrDomainActive
	}
	if err := r.store.DeleteDomain(userID, id); err != nil {
		return fmt.Errorf("failed to delete domain: %w", err)
	}
	logger.Info("Domain deleted", "user", userID, "domain", id)
	return nil
}

// Disable takes a domain out of daily check-ins without archiving it. This
// is how core domains are paused.
func (r *Registry) Disable(userID, id string) (models.Domain, error) {
	unlock := r.lock(userID)
	defer unlock()

	d, err := r.store.GetDomain(userID, id)
	if err != nil {
		return models.Domain{}, err
	}
	if d.IsArchived() {
		return models.Domain{}, ErrArchived
	}
	if d.Disabled {
		return d, nil
	}
	d.Disabled = true
	return d, r.save(d)
}

func (r *Registry) Enable(userID, id string) (models.Domain, error) {
	unlock := r.lock(userID)
	defer unlock()

	d, err := r.store.GetDomain(userID, id)
	if err != nil {
		return models.Domain{}, err
	}
	if d.IsArchived() {
		return models.Domain{}, ErrArchived
	}
	if !d.Disabled {
		return d, nil
	}
	if err := r.ensureCapacity(userID); err != nil {
		return models.Domain{}, err
	}
	d.Disabled = false
	return d, r.save(d)
}

func (r *Registry) Update(userID, id string, edit DomainEdit) (models.Domain, error) {
	unlock := r.lock(userID)
	defer unlock()

	d, err := r.store.GetDomain(userID, id)
	if err != nil {
		return models.Domain{}, err
	}

	if edit.Name != nil {
		name := strings.TrimSpace(*edit.Name)
		if name == "" {
			return models.Domain{}, fmt.Errorf("%w: name is required", ErrInvalidDomain)
		}
		d.Name = name
	}
	if edit.Icon != nil {
		d.Icon = *edit.Icon
	}
	if edit.Color != nil {
		d.Color = *edit.Color
	}
	if edit.XPEnabled != nil {
		d.XPEnabled = *edit.XPEnabled
	}
	if edit.Position != nil {
		d.Position = *edit.Position
	}
	return d, r.save(d)
}

func (r *Registry) AddAction(userID, domainID, label string) (models.MicroAction, error) {
	unlock := r.lock(userID)
	defer unlock()

	d, err := r.store.GetDomain(userID, domainID)
	if err != nil {
		return models.MicroAction{}, err
	}
	action, err := appendAction(&d, label)
	if err != nil {
		return models.MicroAction{}, err
	}
	return action, r.save(d)
}

// RemoveAction drops a micro-action by id or label. Past entries keep the
// selections they were scored with.
func (r *Registry) RemoveAction(userID, domainID, ref string) error {
	unlock := r.lock(userID)
	defer unlock()

	d, err := r.store.GetDomain(userID, domainID)
	if err != nil {
		return err
	}
	action, ok := d.FindAction(ref)
	if !ok {
		return fmt.Errorf("%w: %s", ErrActionNotFound, ref)
	}

	kept := make([]models.MicroAction, 0, len(d.Actions)-1)
	for _, a := range d.Actions {
		if a.ID != action.ID {
			kept = append(kept, a)
		}
	}
	d.Actions = kept
	return r.save(d)
}

// SeedCore creates any missing core domains for the user. Core domains that
// would exceed the active cap are created disabled.
func (r *Registry) SeedCore(userID string) ([]models.Domain, error) {
	unlock := r.lock(userID)
	defer unlock()
	return r.seedCore(userID)
}

func (r *Registry) ensureCore(userID string) error {
	unlock := r.lock(userID)
	defer unlock()
	_, err := r.seedCore(userID)
	return err
}

func (r *Registry) seedCore(userID string) ([]models.Domain, error) {
	all, err := r.store.GetDomains(userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load domains: %w", err)
	}
	active := models.CountActive(all)

	var created []models.Domain
	for i, id := range constants.CoreDomains {
		if slices.ContainsFunc(all, func(d models.Domain) bool { return d.ID == id }) {
			continue
		}

		d := coreDomain(id)
		d.UserID = userID
		d.Position = i
		d.CreatedAt = r.now()
		if active >= constants.MaxActiveDomains {
			d.Disabled = true
		} else {
			active++
		}

		if err := r.store.AddDomain(d); errors.Is(err, storage.ErrAlreadyExists) {
			continue
		} else if err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", id, err)
		}
		created = append(created, d)
	}

	if len(created) > 0 {
		logger.Info("Seeded core domains", "user", userID, "count", len(created))
	}
	return created, nil
}

func (r *Registry) ensureCapacity(userID string) error {
	domains, err := r.store.GetDomains(userID, false)
	if err != nil {
		return fmt.Errorf("failed to load domains: %w", err)
	}
	if models.CountActive(domains) >= constants.MaxActiveDomains {
		return ErrDomainLimit
	}
	return nil
}

func (r *Registry) save(d models.Domain) error {
	if err := r.store.UpdateDomain(d); err != nil {
		return fmt.Errorf("failed to save domain %s: %w", d.ID, err)
	}
	return nil
}

func appendAction(d *models.Domain, label string) (models.MicroAction, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return models.MicroAction{}, fmt.Errorf("%w: action label is required", ErrInvalidDomain)
	}

	base := slug(label)
	if base == "" {
		base = uuid.NewString()[:8]
	}
	id := base
	for n := 2; ; n++ {
		if _, taken := d.FindAction(id); !taken {
			break
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}

	action := models.MicroAction{ID: id, Label: label}
	d.Actions = append(d.Actions, action)
	return action, nil
}

// slug lowercases s and joins its letter and digit runs with dashes.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

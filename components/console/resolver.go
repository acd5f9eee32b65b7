package console

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"
)

// Display sentinels. Synthesized profiles never interpolate an empty value
// into visible text.
const (
	UnknownLabel     = "Unknown"
	NotAssignedLabel = "Not Assigned"
)

const (
	lookupBatchCapacity = 100
	lookupBatchWait     = 2 * time.Millisecond
)

var errProfileNotFound = errors.New("console: profile not found")

// Profile is the auxiliary user/vendor detail attached to a row. Profiles
// live for one fetch cycle only: they are recomputed on every refetch and
// never persisted.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// RefKey implements Keyed so Ref[Profile] can carry embedded profiles.
func (p Profile) RefKey() string { return p.ID }

// UnmarshalJSON tolerates the shapes backends actually send: `_id` next to
// `id`, split first/last names, or a single name field.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string `json:"id"`
		MongoID   string `json:"_id"`
		Name      string `json:"name"`
		FullName  string `json:"fullName"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ID = raw.ID
	if p.ID == "" {
		p.ID = raw.MongoID
	}
	p.Name = firstNonEmpty(
		raw.Name,
		raw.FullName,
		strings.TrimSpace(raw.FirstName+" "+raw.LastName),
	)
	p.Email = raw.Email
	p.Phone = raw.Phone
	return nil
}

// ProfileLookup fetches auxiliary profiles for a batch of ids from one
// source collection (users, vendors, ...).
type ProfileLookup interface {
	LookupProfiles(ctx context.Context, source string, ids []string) (map[string]Profile, error)
}

// Join pairs one row's foreign key with the fallback profile synthesized
// from the row's denormalized scalar fields.
type Join struct {
	Ref      *Ref[Profile]
	Fallback Profile
}

// Resolver turns ambiguous foreign keys into resolved display profiles.
// Lookups are deduplicated and batched per source; the whole batch is
// awaited before the caller commits, and a single failed lookup degrades
// only its own rows to the synthesized fallback.
//
// Create one Resolver per fetch cycle: its internal loaders cache results
// for the lifetime of the pass.
type Resolver struct {
	lookup    ProfileLookup
	telemetry Telemetry

	mu      sync.Mutex
	loaders map[string]*dataloader.Loader[string, Profile]
}

// NewResolver builds a resolver over the given lookup.
func NewResolver(lookup ProfileLookup, telemetry Telemetry) *Resolver {
	return &Resolver{
		lookup:    lookup,
		telemetry: normalizeTelemetry(telemetry),
		loaders:   make(map[string]*dataloader.Loader[string, Profile]),
	}
}

// ResolveAll settles every join in the batch. Rows arriving with an
// embedded profile keep it; rows with a bare id are looked up (one batched
// call per source, duplicate ids collapsed); rows whose lookup failed or
// returned nothing get a synthesized profile. After ResolveAll returns no
// join is left unresolved.
func (r *Resolver) ResolveAll(ctx context.Context, source string, joins []Join) {
	type pending struct {
		join  *Join
		thunk func() (Profile, error)
	}

	var waiting []pending
	loader := r.loaderFor(source)
	for i := range joins {
		join := &joins[i]
		if join.Ref == nil || join.Ref.IsZero() {
			continue
		}
		if _, ok := join.Ref.Resolved(); ok {
			continue
		}
		if r.lookup == nil {
			*join.Ref = join.Ref.Resolve(synthesizeProfile(join.Fallback, join.Ref.ID()))
			continue
		}
		// Issue every load before awaiting any thunk so the loader can
		// batch the whole pass into one lookup call.
		waiting = append(waiting, pending{join: join, thunk: loader.Load(ctx, join.Ref.ID())})
	}

	for _, p := range waiting {
		profile, err := p.thunk()
		if err != nil {
			if !errors.Is(err, errProfileNotFound) {
				r.telemetry.Record(ctx, "console.resolver.lookup_error", map[string]any{
					"source": source,
					"id":     p.join.Ref.ID(),
					"error":  err.Error(),
				})
			}
			profile = synthesizeProfile(p.join.Fallback, p.join.Ref.ID())
		}
		if profile.Name == "" {
			profile = synthesizeProfile(p.join.Fallback, p.join.Ref.ID())
		}
		*p.join.Ref = p.join.Ref.Resolve(profile)
	}
}

func (r *Resolver) loaderFor(source string) *dataloader.Loader[string, Profile] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if loader, ok := r.loaders[source]; ok {
		return loader
	}
	loader := dataloader.NewBatchedLoader(
		r.batchFn(source),
		dataloader.WithWait[string, Profile](lookupBatchWait),
		dataloader.WithBatchCapacity[string, Profile](lookupBatchCapacity),
	)
	r.loaders[source] = loader
	return loader
}

func (r *Resolver) batchFn(source string) dataloader.BatchFunc[string, Profile] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[Profile] {
		profiles, err := r.lookup.LookupProfiles(ctx, source, keys)
		if err != nil {
			return errorResults[Profile](len(keys), err)
		}
		results := make([]*dataloader.Result[Profile], len(keys))
		for i, key := range keys {
			if profile, ok := profiles[key]; ok {
				results[i] = &dataloader.Result[Profile]{Data: profile}
			} else {
				results[i] = &dataloader.Result[Profile]{Error: errProfileNotFound}
			}
		}
		return results
	}
}

// errorResults returns a slice of error results for all keys.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// synthesizeProfile builds a display profile from whatever denormalized
// fields the row carried. The name is never empty.
func synthesizeProfile(fallback Profile, id string) Profile {
	profile := fallback
	if profile.ID == "" {
		profile.ID = id
	}
	if strings.TrimSpace(profile.Name) == "" {
		profile.Name = UnknownLabel
	}
	return profile
}

// RefDisplayName resolves the visible name for a foreign key: the resolved
// profile's name, the synthesized fallback, or "Not Assigned" when the row
// has no reference at all.
func RefDisplayName(ref Ref[Profile], fallback Profile) string {
	if profile, ok := ref.Resolved(); ok && strings.TrimSpace(profile.Name) != "" {
		return profile.Name
	}
	if name := strings.TrimSpace(fallback.Name); name != "" {
		return name
	}
	if ref.IsZero() {
		return NotAssignedLabel
	}
	return UnknownLabel
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

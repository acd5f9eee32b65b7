package goadmin

import (
	"context"
	"errors"

	activitypkg "github.com/goliatone/go-console/pkg/activity"
	consolepkg "github.com/goliatone/go-console/pkg/console"
)

// MenuBuilder ensures console entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures console link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the console service + feature flags into an admin shell.
type Config struct {
	EnableConsole   bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *consolepkg.Service
	DefaultMenuItem MenuItem
	ActivityHooks   activitypkg.Hooks
	ActivityConfig  activitypkg.Config
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed console menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableConsole && cfg.Service == nil {
		return nil, errors.New("goadmin: console service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Console"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.console"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "list"
	}
	return &Admin{cfg: cfg}, nil
}

// Console exposes the configured console service when enabled.
func (a *Admin) Console() *consolepkg.Service {
	if !a.cfg.EnableConsole {
		return nil
	}
	return a.cfg.Service
}

// Bootstrap seeds the directory menu entry plus one entry per registered
// collection when console support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableConsole || a.cfg.MenuBuilder == nil {
		return nil
	}
	if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, a.cfg.DefaultMenuItem); err != nil {
		return err
	}
	if a.cfg.Service == nil {
		return nil
	}
	for i, desc := range a.cfg.Service.Registry().Descriptors() {
		item := MenuItem{
			Label:    desc.Name,
			Route:    desc.ListPath,
			Icon:     "table",
			Position: a.cfg.DefaultMenuItem.Position + i + 1,
		}
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return err
		}
	}
	return nil
}

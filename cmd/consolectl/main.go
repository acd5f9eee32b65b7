package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	console "github.com/goliatone/go-console/components/console"
)

type cli struct {
	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a collection descriptor, record stub, and manifest entry."`
	Validate validateCmd `cmd:"" help:"Validate a console manifest file."`
}

type scaffoldCmd struct {
	Code         string   `required:"" help:"Fully-qualified collection code (e.g. acme.console.orders)."`
	Name         string   `required:"" help:"Display name for the collection."`
	Description  string   `help:"One-line description used in manifests."`
	ListPath     string   `required:"" help:"Backend list endpoint path (e.g. /admin/orders)."`
	Topic        string   `help:"Broadcast topic (defaults to <slug>-updated)."`
	Source       string   `help:"Profile source collection for joins (users, vendors)."`
	SearchField  []string `help:"Searchable fields (use multiple --search-field flags)."`
	StatusValue  []string `help:"Status filter values; 'all' is prepended automatically."`
	ManifestPath string   `required:"" type:"path" help:"Path to the console manifest YAML file to update."`
	Tag          []string `help:"Optional tags to include in the manifest."`
	Maintainer   []string `help:"Maintainers to record in the manifest."`
	RecordOut    string   `help:"File path for the generated record stub (defaults to components/console/<slug>_record.go)."`
	Overwrite    bool     `help:"Overwrite existing record stub / manifest entry if present."`
	SkipRecord   bool     `name:"skip-record" help:"Skip record stub generation."`
}

type validateCmd struct {
	ManifestPath string `arg:"" type:"path" help:"Path to the manifest file."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Collection scaffolding utility for go-console manifests."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("consolectl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if !cmd.Overwrite {
		for _, collection := range doc.Collections {
			if collection.Descriptor.Code == cmd.Code {
				return fmt.Errorf("consolectl: manifest already defines collection %s (use --overwrite to replace)", cmd.Code)
			}
		}
	}

	slug := deriveSlug(cmd.Code)
	topic := cmd.Topic
	if topic == "" {
		topic = slug + "-updated"
	}
	statuses := cmd.StatusValue
	if len(statuses) > 0 && !strings.EqualFold(statuses[0], console.FilterAll) {
		statuses = append([]string{console.FilterAll}, statuses...)
	}

	entry := console.ManifestCollection{
		Descriptor: console.Descriptor{
			Code:          cmd.Code,
			Name:          cmd.Name,
			Description:   cmd.Description,
			Topic:         topic,
			ListPath:      cmd.ListPath,
			ProfileSource: cmd.Source,
			SearchFields:  cmd.SearchField,
			StatusValues:  statuses,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}

	if cmd.Overwrite {
		replaced := false
		for idx := range doc.Collections {
			if doc.Collections[idx].Descriptor.Code == cmd.Code {
				doc.Collections[idx] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			doc.Collections = append(doc.Collections, entry)
		}
	} else {
		doc.Collections = append(doc.Collections, entry)
	}

	sort.Slice(doc.Collections, func(i, j int) bool {
		return doc.Collections[i].Descriptor.Code < doc.Collections[j].Descriptor.Code
	})

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}

	if cmd.SkipRecord {
		fmt.Fprintf(os.Stdout, "✓ Added %s to %s\n", cmd.Code, manifestPath)
		return nil
	}

	recordPath := cmd.RecordOut
	if recordPath == "" {
		recordPath = filepath.Join("components", "console", fmt.Sprintf("%s_record.go", sanitizeFileName(slug)))
	}
	if err := writeRecordStub(recordPath, strcase.ToCamel(slug), cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s and generated %s\n", cmd.Code, manifestPath, recordPath)
	return nil
}

func (cmd *scaffoldCmd) validate() error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("consolectl: collection code %s must contain at least one '.' segment", cmd.Code)
	}
	if !strings.HasPrefix(cmd.ListPath, "/") {
		return fmt.Errorf("consolectl: list path %s must start with '/'", cmd.ListPath)
	}
	return nil
}

func (cmd *validateCmd) Run(_ context.Context) error {
	doc, err := console.ReadManifest(cmd.ManifestPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ %s is valid (%d collections)\n", cmd.ManifestPath, len(doc.Collections))
	return nil
}

func loadOrInitManifest(path string) (*console.ConsoleManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			doc := &console.ConsoleManifestDocument{
				Version:     console.ManifestVersion,
				Collections: []console.ManifestCollection{},
				Source:      path,
			}
			return doc, nil
		}
		return nil, fmt.Errorf("consolectl: stat manifest: %w", err)
	}
	doc, err := console.ReadManifest(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func writeManifest(path string, doc *console.ConsoleManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("consolectl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("consolectl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("consolectl: write manifest: %w", err)
	}
	return nil
}

func writeRecordStub(path, typeName string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("consolectl: record stub %s already exists (use --overwrite or --record-out)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("consolectl: mkdir record dir: %w", err)
	}
	content := fmt.Sprintf(`package console

// %s is one row of the collection. Extend it with the backend's fields.
type %s struct {
	ID     string `+"`json:\"_id\"`"+`
	AltID  string `+"`json:\"id\"`"+`
	Name   string `+"`json:\"name\"`"+`
	Status string `+"`json:\"status\"`"+`
}

func (r %s) ItemID() string        { return firstNonEmpty(r.ID, r.AltID) }
func (r %s) DisplayName() string   { return firstNonEmpty(r.Name, UnknownLabel) }
func (r %s) DisplayStatus() string { return displayStatus(r.Status) }
`, typeName, typeName, typeName, typeName, typeName)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("consolectl: write record stub: %w", err)
	}
	return nil
}

func deriveSlug(code string) string {
	parts := strings.Split(code, ".")
	slug := strings.TrimSpace(parts[len(parts)-1])
	if slug == "" {
		slug = code
	}
	return strcase.ToSnake(slug)
}

func sanitizeFileName(slug string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_")
	return strings.ToLower(replacer.Replace(slug))
}

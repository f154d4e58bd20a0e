package cleaner

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPreset is returned when a preset name or alias is not registered.
var ErrUnknownPreset = errors.New("unknown preset")

// ErrBuiltinPreset is returned when removing, replacing or reusing the name
// or an alias of a built-in preset.
var ErrBuiltinPreset = errors.New("built-in preset")

// ErrPresetConflict is returned when a preset name or alias is already taken
// by another preset.
var ErrPresetConflict = errors.New("preset name conflict")

// Preset is a named Selection.
type Preset struct {
	Name        string
	Description string
	Aliases     []string
	Selection   Selection
}

// PresetRegistry holds presets by name with optional aliases.
type PresetRegistry struct {
	mu       sync.RWMutex
	presets  map[string]Preset
	aliases  map[string]string
	builtins map[string]struct{}
}

// NewPresetRegistry returns a registry seeded with the built-in presets.
func NewPresetRegistry() *PresetRegistry {
	r := &PresetRegistry{
		presets:  make(map[string]Preset),
		aliases:  make(map[string]string),
		builtins: make(map[string]struct{}),
	}
	for _, p := range builtinPresets() {
		// Built-ins only reference catalog entries and never collide.
		r.put(p)
		r.builtins[p.Name] = struct{}{}
	}
	return r
}

func builtinPresets() []Preset {
	return []Preset{
		{
			Name:        "default",
			Description: "Trim surrounding whitespace",
			Aliases:     []string{"standard"},
			Selection:   DefaultSelection(),
		},
		{
			Name:        "all",
			Description: "Every transformation in the catalog",
			Aliases:     []string{"everything"},
			Selection:   AllSelection(),
		},
		{
			Name:        "whitespace",
			Description: "Tidy blank lines and runs of spaces",
			Selection: NewSelection(
				RemoveEmptyLines.String(),
				ConvertMultipleSpacesToSingle.String(),
				Trim.String(),
			),
		},
		{
			Name:        "redact",
			Description: "Strip email addresses and links",
			Aliases:     []string{"privacy"},
			Selection:   NewSelection(RemoveAllEmails.String(), RemoveAllURLs.String()),
		},
		{
			Name:        "ascii",
			Description: "Fold text down to plain ASCII",
			Selection: NewSelection(
				NormalizeUnicodeCharacters.String(),
				RemoveLetterAccents.String(),
				RemoveNonASCIICharacters.String(),
			),
		},
	}
}

// Register adds or replaces a user preset. Every name in the preset's
// selection must resolve against the catalog. Names and aliases share one
// namespace: a preset may not take a name or alias owned by another preset,
// and built-ins are never replaced. Replacing a preset drops its old aliases.
func (r *PresetRegistry) Register(p Preset) error {
	if p.Name == "" {
		return errors.New("preset name is required")
	}
	if _, err := BuildFromSelection(p.Selection); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.claim(p.Name, p.Name); err != nil {
		return err
	}
	for _, alias := range p.Aliases {
		if alias == "" {
			return fmt.Errorf("preset %q: empty alias", p.Name)
		}
		if alias == p.Name {
			return fmt.Errorf("%w: preset %q cannot alias its own name", ErrPresetConflict, p.Name)
		}
		if err := r.claim(alias, p.Name); err != nil {
			return err
		}
	}

	r.put(p)
	return nil
}

// claim checks that identifier is free for the preset called owner: unused,
// or already the owner's own name or alias. Callers hold the write lock.
func (r *PresetRegistry) claim(identifier, owner string) error {
	holder := identifier
	if target, ok := r.aliases[identifier]; ok {
		holder = target
	} else if _, ok := r.presets[identifier]; !ok {
		return nil
	}

	if _, ok := r.builtins[holder]; ok {
		return fmt.Errorf("%w %q", ErrBuiltinPreset, identifier)
	}
	if holder == owner {
		return nil
	}
	return fmt.Errorf("%w: %q is taken by preset %q", ErrPresetConflict, identifier, holder)
}

// put stores p and replaces any aliases it had before. Callers hold the
// write lock or own the registry exclusively.
func (r *PresetRegistry) put(p Preset) {
	for alias, target := range r.aliases {
		if target == p.Name {
			delete(r.aliases, alias)
		}
	}
	p.Aliases = append([]string(nil), p.Aliases...)
	r.presets[p.Name] = p
	for _, alias := range p.Aliases {
		r.aliases[alias] = p.Name
	}
}

// Get resolves a preset by name or alias.
func (r *PresetRegistry) Get(identifier string) (Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.presets[identifier]; ok {
		return p, nil
	}
	if name, ok := r.aliases[identifier]; ok {
		return r.presets[name], nil
	}
	return Preset{}, fmt.Errorf("%w %q", ErrUnknownPreset, identifier)
}

// Unregister removes a preset and its aliases. Built-in presets stay.
func (r *PresetRegistry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.builtins[name]; ok {
		return fmt.Errorf("%w %q", ErrBuiltinPreset, name)
	}
	if _, ok := r.presets[name]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	delete(r.presets, name)
	for alias, target := range r.aliases {
		if target == name {
			delete(r.aliases, alias)
		}
	}
	return nil
}

// IsBuiltin reports whether name is one of the built-in presets.
func (r *PresetRegistry) IsBuiltin(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.builtins[name]
	return ok
}

// List returns every preset sorted by name.
func (r *PresetRegistry) List() []Preset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Preset, 0, len(r.presets))
	for _, p := range r.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type presetFile struct {
	Presets []struct {
		Name            string   `yaml:"name"`
		Description     string   `yaml:"description"`
		Aliases         []string `yaml:"aliases"`
		Transformations []string `yaml:"transformations"`
	} `yaml:"presets"`
}

// LoadYAML registers every preset in a document of the form
//
//	presets:
//	  - name: tidy
//	    aliases: [t]
//	    transformations: [remove_empty_lines, trim]
//
// and returns how many were loaded. Loading stops at the first invalid preset.
func (r *PresetRegistry) LoadYAML(in io.Reader) (int, error) {
	var file presetFile
	if err := yaml.NewDecoder(in).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to decode presets: %w", err)
	}

	for i, p := range file.Presets {
		err := r.Register(Preset{
			Name:        p.Name,
			Description: p.Description,
			Aliases:     p.Aliases,
			Selection:   NewSelection(p.Transformations...),
		})
		if err != nil {
			return i, err
		}
	}
	return len(file.Presets), nil
}

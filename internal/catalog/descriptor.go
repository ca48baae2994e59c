package catalog

// Kind says how a template's files are produced.
type Kind string

const (
	// KindBuiltin templates are rendered from scaffold sets compiled into the binary.
	KindBuiltin Kind = "builtin"
	// KindGit templates are cloned from a remote repository.
	KindGit Kind = "git"
)

// SourceLocal is the Source value of builtin descriptors.
const SourceLocal = "local"

// OriginBuiltin marks descriptors that came from the embedded catalog.
const OriginBuiltin = "builtin"

// Descriptor is the metadata for one template.
type Descriptor struct {
	ID                   string   `yaml:"id" json:"id"`
	Name                 string   `yaml:"name" json:"name"`
	Description          string   `yaml:"description" json:"description"`
	Source               string   `yaml:"source" json:"source"`
	Kind                 Kind     `yaml:"kind,omitempty" json:"kind"`
	Features             []string `yaml:"features,omitempty" json:"features"`
	Dependencies         []string `yaml:"dependencies,omitempty" json:"dependencies"`
	UseCases             []string `yaml:"use_cases,omitempty" json:"use_cases"`
	StructureDescription string   `yaml:"structure_description,omitempty" json:"structure_description,omitempty"`
	Structure            []string `yaml:"structure,omitempty" json:"structure,omitempty"`
	KeyFeatures          []string `yaml:"key_features,omitempty" json:"key_features,omitempty"`

	// Origin is OriginBuiltin or the path of the user file that defined it.
	Origin string `yaml:"-" json:"origin"`
}

// IsGit reports whether the template is fetched with git.
func (d *Descriptor) IsGit() bool { return d.Kind == KindGit }

// HasFeature reports whether tag is among the descriptor's feature tags.
func (d *Descriptor) HasFeature(tag string) bool {
	for _, f := range d.Features {
		if f == tag {
			return true
		}
	}
	return false
}

var defaultStructure = []string{
	"your_project/",
	"├── src/",
	"│   └── your_project/",
	"│       └── __init__.py",
	"├── tests/",
	"├── setup.py",
	"├── requirements.txt",
	"└── README.md",
}

// normalize fills fields that catalog documents may omit.
func (d *Descriptor) normalize() {
	if d.Kind == "" {
		if d.Source == SourceLocal {
			d.Kind = KindBuiltin
		} else {
			d.Kind = KindGit
		}
	}
	if len(d.UseCases) == 0 {
		d.UseCases = []string{"General Python development"}
	}
	if len(d.Dependencies) == 0 {
		d.Dependencies = []string{"setuptools"}
	}
	if len(d.Structure) == 0 {
		d.Structure = append([]string(nil), defaultStructure...)
		if d.StructureDescription == "" {
			d.StructureDescription = "Standard Python project layout"
		}
	}
}

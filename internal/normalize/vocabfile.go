package normalize

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// VocabFile is the on-disk shape of a vocabulary override file. Any section
// left empty falls back to the built-in tables.
type VocabFile struct {
	Sectors  map[string][]string `yaml:"sectors"`
	Stages   map[string][]string `yaml:"stages"`
	Statuses map[string][]string `yaml:"statuses"`
}

// Vocabularies bundles the three lookup tables the pipeline needs.
type Vocabularies struct {
	Sectors  *Vocabulary
	Stages   *Vocabulary
	Statuses *Vocabulary
}

// DefaultVocabularies returns the built-in tables.
func DefaultVocabularies() *Vocabularies {
	return &Vocabularies{
		Sectors:  DefaultSectors(),
		Stages:   DefaultStages(),
		Statuses: DefaultStatuses(),
	}
}

// LoadVocabularies reads a vocabulary override file. An empty path returns
// the defaults.
func LoadVocabularies(path string) (*Vocabularies, error) {
	if path == "" {
		return DefaultVocabularies(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "normalize: read vocab file %s", path)
	}

	var vf VocabFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, eris.Wrap(err, "normalize: parse vocab file")
	}

	v := DefaultVocabularies()
	if len(vf.Sectors) > 0 {
		v.Sectors = NewVocabulary(vf.Sectors)
	}
	if len(vf.Stages) > 0 {
		v.Stages = NewVocabulary(vf.Stages)
	}
	if len(vf.Statuses) > 0 {
		v.Statuses = NewVocabulary(vf.Statuses)
	}
	return v, nil
}

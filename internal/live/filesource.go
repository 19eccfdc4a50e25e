package live

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSnapshot mirrors the YAML snapshot layout:
//
//	character:
//	  name: Alice Brightwood
//	  world: 33
//	  gil: 120000
//	retainers_ready: true
//	retainers:
//	  - {id: 500, name: Bob, gil: 4000}
type fileSnapshot struct {
	Character struct {
		Name  string `yaml:"name"`
		World uint32 `yaml:"world"`
		Gil   int64  `yaml:"gil"`
	} `yaml:"character"`
	RetainersReady *bool `yaml:"retainers_ready"`
	Retainers      []struct {
		ID   uint64 `yaml:"id"`
		Name string `yaml:"name"`
		Gil  int64  `yaml:"gil"`
	} `yaml:"retainers"`
}

// FileSource is a Source backed by a YAML snapshot file. It stands in for the
// host runtime in the CLI and in tests.
type FileSource struct {
	character CharacterSnapshot
	ready     bool
	retainers []RetainerSnapshot
}

// LoadFile reads a YAML snapshot from path.
func LoadFile(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot builds a FileSource from YAML snapshot bytes.
func ParseSnapshot(data []byte) (*FileSource, error) {
	var snap fileSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	src := &FileSource{
		character: CharacterSnapshot{
			Name:    snap.Character.Name,
			WorldID: snap.Character.World,
			Gil:     snap.Character.Gil,
		},
		ready: snap.RetainersReady == nil || *snap.RetainersReady,
	}
	for _, r := range snap.Retainers {
		src.retainers = append(src.retainers, RetainerSnapshot{ID: r.ID, Name: r.Name, Gil: r.Gil})
	}
	return src, nil
}

func (s *FileSource) CurrentCharacter(ctx context.Context) (CharacterSnapshot, error) {
	if s.character.Name == "" {
		return CharacterSnapshot{}, ErrNotReady
	}
	return s.character, nil
}

func (s *FileSource) RetainerListReady(ctx context.Context) bool {
	return s.ready
}

func (s *FileSource) RetainerList(ctx context.Context) ([]RetainerSnapshot, error) {
	if !s.ready {
		return nil, ErrNotReady
	}
	// Copy so callers can't mutate the backing slice between passes.
	out := make([]RetainerSnapshot, len(s.retainers))
	copy(out, s.retainers)
	return out, nil
}

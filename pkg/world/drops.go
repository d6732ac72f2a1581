package world

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxRoll is the exclusive upper bound of a drop roll.
const MaxRoll = 10000

//go:embed drops.yaml
var defaultDropsYAML []byte

// DropRule replaces the item a broken block yields.
type DropRule struct {
	Block       int   `yaml:"block"`
	Item        int16 `yaml:"item"`
	Count       int8  `yaml:"count"`
	Probability int   `yaml:"probability"`
	// Exclusive rules yield nothing when the roll misses instead of falling
	// back to the block itself.
	Exclusive bool `yaml:"exclusive"`
}

// Drop is one item stack produced by breaking a block.
type Drop struct {
	Item  int16
	Count int8
}

// DropTable maps a block id to its drop rule.
type DropTable map[byte]DropRule

type dropsFile struct {
	Drops []DropRule `yaml:"drops"`
}

// ParseDrops decodes a YAML drop table.
func ParseDrops(raw []byte) (DropTable, error) {
	var f dropsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("drops: %w", err)
	}
	t := make(DropTable, len(f.Drops))
	for i, r := range f.Drops {
		if r.Block <= 0 || r.Block > 255 {
			return nil, fmt.Errorf("drops: rule %d: block %d out of range", i, r.Block)
		}
		if r.Probability < 0 || r.Probability > MaxRoll {
			return nil, fmt.Errorf("drops: rule %d: probability %d out of range [0,%d]", i, r.Probability, MaxRoll)
		}
		if _, dup := t[byte(r.Block)]; dup {
			return nil, fmt.Errorf("drops: rule %d: duplicate block %d", i, r.Block)
		}
		t[byte(r.Block)] = r
	}
	return t, nil
}

// LoadDrops reads a drop table from a YAML file.
func LoadDrops(path string) (DropTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDrops(raw)
}

// DefaultDrops returns the built-in drop table.
func DefaultDrops() DropTable {
	t, err := ParseDrops(defaultDropsYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// Roll resolves what breaking block yields for a roll in [0, MaxRoll). A rule
// applies when the roll lands below its probability; otherwise the block drops
// itself unless the rule is exclusive.
func (t DropTable) Roll(block byte, roll int) (Drop, bool) {
	rule, ok := t[block]
	if ok && roll < rule.Probability {
		return Drop{Item: rule.Item, Count: rule.Count}, true
	}
	if !ok || !rule.Exclusive {
		return Drop{Item: int16(block), Count: 1}, true
	}
	return Drop{}, false
}

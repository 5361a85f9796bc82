package ingestion

import (
	"regexp"
	"strings"
)

// BlockKind labels one section of a workout write-up.
type BlockKind string

const (
	BlockWarmup   BlockKind = "warmup"
	BlockStrength BlockKind = "strength"
	BlockMetcon   BlockKind = "metcon"
	BlockCooldown BlockKind = "cooldown"
	BlockGeneral  BlockKind = "general"
)

type WorkoutBlock struct {
	Kind BlockKind `json:"kind"`
	Text string    `json:"text"`
}

var (
	warmupLabelRe   = regexp.MustCompile(`(?i)^warm[\s-]*up\b`)
	strengthLabelRe = regexp.MustCompile(`(?i)^strength\b`)
	metconLabelRe   = regexp.MustCompile(`(?i)^(metcon|conditioning|wod)\b`)
)

func blockLabelKind(line string) (BlockKind, bool) {
	switch {
	case warmupLabelRe.MatchString(line):
		return BlockWarmup, true
	case strengthLabelRe.MatchString(line):
		return BlockStrength, true
	case coolDownRe.MatchString(line):
		return BlockCooldown, true
	case metconLabelRe.MatchString(line):
		return BlockMetcon, true
	}
	return "", false
}

// ExtractBlocks splits workout text into labeled sections. Lines opening with
// a section label start a new block and keep the label line; a write-up with
// no labels at all is a single metcon block.
func ExtractBlocks(text string) []WorkoutBlock {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var blocks []WorkoutBlock
	labeled := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if kind, ok := blockLabelKind(line); ok {
			blocks = append(blocks, WorkoutBlock{Kind: kind, Text: line})
			labeled = true
			continue
		}
		if len(blocks) == 0 {
			blocks = append(blocks, WorkoutBlock{Kind: BlockGeneral, Text: line})
			continue
		}
		blocks[len(blocks)-1].Text += "\n" + line
	}

	if !labeled {
		return []WorkoutBlock{{Kind: BlockMetcon, Text: text}}
	}
	return blocks
}

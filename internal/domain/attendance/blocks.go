package attendance

import (
	"hrcredit/internal/domain/interval"
	"hrcredit/internal/domain/schedule"
)

// BuildBlocks numbers the creditable intervals from 1 and links each to the latest
// break that ends at or before its start.
func BuildBlocks(creditable []interval.Interval, breaks []schedule.MappedBreak) []Block {
	blocks := make([]Block, 0, len(creditable))
	for i, c := range creditable {
		block := Block{Index: i + 1, Interval: c}
		for j := range breaks {
			if breaks[j].Clipped.End.After(c.Start) {
				continue
			}
			if block.PrecedingBreak == nil || breaks[j].Clipped.End.After(block.PrecedingBreak.Clipped.End) {
				b := breaks[j]
				block.PrecedingBreak = &b
			}
		}
		blocks = append(blocks, block)
	}
	return blocks
}

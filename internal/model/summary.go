package model

// DailySummary is one compacted per-day balance total produced by the daily
// aggregation step. RetainerID 0 means the character's own balance.
type DailySummary struct {
	CharacterID string `json:"character_id"`
	RetainerID  uint64 `json:"retainer_id"`
	TotalGil    int64  `json:"total_gil"`
	Day         string `json:"day"`
}

package models

import "encoding/json"

// SearchResponse mirrors the envelope of a search-engine query response.
type SearchResponse struct {
	Took     int        `json:"took"`
	TimedOut bool       `json:"timed_out"`
	Shards   ShardStats `json:"_shards"`
	Hits     HitList    `json:"hits"`
}

// ShardStats reports shard participation
type ShardStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// HitList holds the matched documents
type HitList struct {
	Total    HitTotal `json:"total"`
	MaxScore float64  `json:"max_score"`
	Hits     []Hit    `json:"hits"`
}

// HitTotal is the total hit count
type HitTotal struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

// Hit is one matched document. Source is kept raw so catalog lines pass
// through byte for byte.
type Hit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// DependencySource is the _source of an asset-dependencies hit, shaped like
// a composite aggregation bucket.
type DependencySource struct {
	Timestamp  MaxAggregation   `json:"@timestamp"`
	SessionID  ValueCountBucket `json:"session_id"`
	AssetPairs string           `json:"asset_pairs"`
}

// MaxAggregation wraps a nullable max value
type MaxAggregation struct {
	Max struct {
		Max *float64 `json:"max"`
	} `json:"max"`
}

// ValueCountBucket wraps a value_count aggregation
type ValueCountBucket struct {
	ValueCount int `json:"value_count"`
}

// NewSearchResponse wraps hits in a single-shard envelope.
func NewSearchResponse(hits []Hit) *SearchResponse {
	if hits == nil {
		hits = []Hit{}
	}
	return &SearchResponse{
		Took:     1,
		TimedOut: false,
		Shards:   ShardStats{Total: 1, Successful: 1},
		Hits: HitList{
			Total:    HitTotal{Value: len(hits), Relation: "eq"},
			MaxScore: 1,
			Hits:     hits,
		},
	}
}

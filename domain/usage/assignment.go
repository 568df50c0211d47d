package usage

import "time"

// Assignment is one row of the aligned cluster timeline: the cluster and usage
// type a station had in the snapshot at Date.
type Assignment struct {
	Station string    `json:"station"`
	Date    time.Time `json:"date"`
	Cluster int       `json:"cluster_id"`
	Type    Type      `json:"usage_type"`
}

package export

import (
	"github.com/yulin/playlens/internal/cluster"
	"github.com/yulin/playlens/internal/stats"
)

// TTestHeader returns the columns of the flattened t-test table.
func TTestHeader() []string {
	return []string{
		"feature", "group_a", "group_b", "n_a", "n_b",
		"mean_a", "mean_b", "t", "df", "p", "significant",
	}
}

// TTestRow flattens one test result in TTestHeader order.
func TTestRow(r stats.TTestResult) []any {
	return []any{
		r.Feature, r.GroupA, r.GroupB, r.NA, r.NB,
		r.MeanA, r.MeanB, r.T, r.DF, r.P, r.Significant,
	}
}

// AssignmentHeader returns the columns of the cluster-assignment table.
func AssignmentHeader() []string {
	return []string{"Class", "StuNum", "cluster"}
}

// AssignmentRow flattens one cluster assignment.
func AssignmentRow(a cluster.Assignment) []any {
	return []any{a.Class, a.StuNum, a.Cluster}
}

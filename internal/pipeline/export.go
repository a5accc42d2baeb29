package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yulin/playlens/internal/export"
)

// Export writes the result tables to the configured output directory:
// workbooks for the analysts, JSON mirrors plus the statistics and cluster
// reports for everything downstream.
func (p *Pipeline) Export(res *Result) error {
	out := p.cfg.OutDir

	bHeader := export.BehaviorHeader(p.rules)
	bRows := make([][]any, 0, len(res.Behavior))
	for _, rec := range res.Behavior {
		bRows = append(bRows, export.BehaviorRow(rec, p.rules))
	}
	if err := export.WriteWorkbook(filepath.Join(out, "behavior.xlsx"), "behavior", bHeader, bRows); err != nil {
		return err
	}
	if err := export.WriteJSON(filepath.Join(out, "behavior.json"), bHeader, bRows); err != nil {
		return err
	}

	pHeader := export.ProfileHeader(p.rules)
	pRows := make([][]any, 0, len(res.Profiles))
	for _, prof := range res.Profiles {
		pRows = append(pRows, export.ProfileRow(prof))
	}
	if err := export.WriteWorkbook(filepath.Join(out, "class_profile.xlsx"), "class_profile", pHeader, pRows); err != nil {
		return err
	}
	if err := export.WriteJSON(filepath.Join(out, "class_profile.json"), pHeader, pRows); err != nil {
		return err
	}

	kHeader := export.KnowledgeHeader(p.kcfg)
	kRows := make([][]any, 0, len(res.Knowledge))
	for _, rec := range res.Knowledge {
		kRows = append(kRows, export.KnowledgeRow(rec, p.kcfg))
	}
	if err := export.WriteWorkbook(filepath.Join(out, "knowledge.xlsx"), "knowledge", kHeader, kRows); err != nil {
		return err
	}
	if err := export.WriteJSON(filepath.Join(out, "knowledge.json"), kHeader, kRows); err != nil {
		return err
	}

	tRows := make([][]any, 0, len(res.Stats.SexTests)+len(res.Stats.TercileTests))
	for _, tt := range res.Stats.SexTests {
		tRows = append(tRows, export.TTestRow(tt))
	}
	for _, tt := range res.Stats.TercileTests {
		tRows = append(tRows, export.TTestRow(tt))
	}
	if err := export.WriteWorkbook(filepath.Join(out, "ttests.xlsx"), "ttests", export.TTestHeader(), tRows); err != nil {
		return err
	}

	aRows := make([][]any, 0, len(res.Cluster.Assignments))
	for _, a := range res.Cluster.Assignments {
		aRows = append(aRows, export.AssignmentRow(a))
	}
	if err := export.WriteWorkbook(filepath.Join(out, "clusters.xlsx"), "clusters", export.AssignmentHeader(), aRows); err != nil {
		return err
	}

	if err := writeReport(filepath.Join(out, "stats.json"), res.Stats); err != nil {
		return err
	}
	return writeReport(filepath.Join(out, "cluster.json"), res.Cluster)
}

func writeReport(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

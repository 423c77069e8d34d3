package output

import (
	"time"

	"github.com/arthur-debert/synctree/pkg/core"
	"github.com/arthur-debert/synctree/pkg/types"
)

// Report is the display model of one sync run.
type Report struct {
	Command   string         `json:"command"`
	Root      string         `json:"root"`
	Layout    string         `json:"layout"`
	DryRun    bool           `json:"dryRun"`
	Kinds     []KindReport   `json:"kinds"`
	Totals    map[string]int `json:"totals"`
	Failed    int            `json:"failed"`
	Total     int            `json:"total"`
	Timestamp time.Time      `json:"timestamp"`
}

// KindReport lists the outcomes of one kind.
type KindReport struct {
	Kind    string `json:"kind"`
	Folder  string `json:"folder"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Items   []Item `json:"items"`
}

// Item is one displayed outcome.
type Item struct {
	Name      string `json:"name"`
	Change    string `json:"change"`
	Success   bool   `json:"success"`
	Container bool   `json:"container,omitempty"`
	Message   string `json:"message,omitempty"`
}

// FromResult converts a run result into a Report.
func FromResult(r *core.Result) *Report {
	summary := r.Summary()
	report := &Report{
		Command:   string(r.Command),
		Root:      r.Root,
		Layout:    r.Mode.String(),
		DryRun:    r.DryRun,
		Totals:    make(map[string]int, len(summary.ByChange)),
		Failed:    summary.Failed,
		Total:     summary.Total,
		Timestamp: time.Now(),
	}
	for change, n := range summary.ByChange {
		report.Totals[string(change)] = n
	}

	for _, k := range r.Kinds {
		kr := KindReport{
			Kind:    string(k.Kind),
			Folder:  k.Folder,
			Skipped: k.Skipped,
			Reason:  k.Reason,
			Items:   make([]Item, 0, len(k.Outcomes)),
		}
		for _, o := range k.Outcomes {
			kr.Items = append(kr.Items, itemFor(o))
		}
		report.Kinds = append(report.Kinds, kr)
	}
	return report
}

func itemFor(o types.Outcome) Item {
	return Item{
		Name:      o.Name,
		Change:    string(o.Change),
		Success:   o.Success,
		Container: o.Container,
		Message:   o.Message,
	}
}

// changeOrder fixes the order of the summary line.
var changeOrder = []types.ChangeType{
	types.ChangeCreate,
	types.ChangeUpdate,
	types.ChangeNoChange,
	types.ChangeExport,
	types.ChangeDelete,
	types.ChangeFail,
}

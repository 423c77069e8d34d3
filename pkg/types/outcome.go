package types

// ChangeType classifies what an operation did to its target.
type ChangeType string

const (
	ChangeCreate   ChangeType = "Create"
	ChangeUpdate   ChangeType = "Update"
	ChangeDelete   ChangeType = "Delete"
	ChangeNoChange ChangeType = "NoChange"
	ChangeFail     ChangeType = "Fail"
	ChangeExport   ChangeType = "Export"
)

// Outcome is the audit record of one attempted import, export or delete.
// Outcomes are created once and never mutated.
type Outcome struct {
	Name      string     `json:"name"`
	Kind      EntityKind `json:"kind,omitempty"`
	Success   bool       `json:"success"`
	Change    ChangeType `json:"change"`
	Message   string     `json:"message,omitempty"`
	Container bool       `json:"container,omitempty"`
	Item      *Entity    `json:"item,omitempty"`
	Error     error      `json:"-"`
}

// Attempt is what the single-item importer reports for one record.
type Attempt struct {
	Success bool
	Item    *Entity
	Change  ChangeType
	Message string
	Error   error
}

// SucceedAttempt builds a successful Attempt.
func SucceedAttempt(item *Entity, change ChangeType, message string) Attempt {
	return Attempt{Success: true, Item: item, Change: change, Message: message}
}

// FailAttempt builds a failed Attempt.
func FailAttempt(err error, message string) Attempt {
	return Attempt{Change: ChangeFail, Message: message, Error: err}
}

// OutcomeFromAttempt records an import attempt against the file it came from.
func OutcomeFromAttempt(kind EntityKind, file string, a Attempt) Outcome {
	o := Outcome{
		Name:    file,
		Kind:    kind,
		Success: a.Success,
		Change:  a.Change,
		Message: a.Message,
		Item:    a.Item,
		Error:   a.Error,
	}
	if !a.Success {
		o.Change = ChangeFail
		if o.Message == "" && a.Error != nil {
			o.Message = a.Error.Error()
		}
	}
	if a.Item != nil {
		o.Container = a.Item.Container
	}
	return o
}

// ImportMap maps a record file to the entity it produced during one run.
type ImportMap map[string]*Entity

// Summary counts outcomes by change type.
type Summary struct {
	Total    int
	Failed   int
	ByChange map[ChangeType]int
}

// Summarize tallies a sequence of outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{ByChange: make(map[ChangeType]int)}
	for _, o := range outcomes {
		s.Total++
		if !o.Success {
			s.Failed++
		}
		s.ByChange[o.Change]++
	}
	return s
}

package tender

// Requirement types recognized by the scoring engine. Anything else is
// weighted as functional.
const (
	TypeMandatory   = "mandatory"
	TypeFunctional  = "functional"
	TypeTechnical   = "technical"
	TypeIntegration = "integration"
	TypeDelivery    = "delivery"
)

// Requirement priorities. Unknown values fall back to Medium.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Requirement is a single testable obligation extracted from an RFP document.
// Requirements are immutable once extracted.
type Requirement struct {
	ID                string `json:"id"`
	Type              string `json:"type"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Priority          string `json:"priority"`
	MandatoryEvidence string `json:"mandatory_evidence,omitempty"`
	EvaluationHint    string `json:"evaluation_hint,omitempty"`
}

// RequirementsDocument is the canonical, ordered requirements list for one
// RFP. The evaluation engine never mutates it, so it is safe to share across
// concurrent workers.
type RequirementsDocument struct {
	Title        string        `json:"rfp_title,omitempty"`
	Requirements []Requirement `json:"requirements"`
}

// Len returns the number of requirements in the document.
func (d *RequirementsDocument) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Requirements)
}

// Index builds a lookup from requirement id to the declared requirement.
func (d *RequirementsDocument) Index() map[string]*Requirement {
	if d == nil {
		return nil
	}
	index := make(map[string]*Requirement, len(d.Requirements))
	for i := range d.Requirements {
		index[d.Requirements[i].ID] = &d.Requirements[i]
	}
	return index
}

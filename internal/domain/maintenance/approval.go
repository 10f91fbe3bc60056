package maintenance

import "strings"

// Approval is the tri-state outcome of an inspection.
type Approval string

const (
	ApprovalYes           Approval = "yes"
	ApprovalNo            Approval = "no"
	ApprovalNotApplicable Approval = "n/a"
)

// ParseApproval never fails; anything it does not recognise is ApprovalNotApplicable.
func ParseApproval(raw string) Approval {
	switch strings.ToLower(strings.Join(strings.Fields(raw), " ")) {
	case "yes", "y", "sim", "s", "true", "1", "aprovado", "conforme", "ok":
		return ApprovalYes
	case "no", "n", "nao", "não", "false", "0", "reprovado", "nao conforme", "não conforme":
		return ApprovalNo
	default:
		return ApprovalNotApplicable
	}
}

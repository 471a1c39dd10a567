package access

import (
	gomponents "maragu.dev/gomponents"

	"altheia/internal/models"
)

// Gate renders children when req allows the session, otherwise fallback.
// A nil fallback renders nothing.
func Gate(state models.Session, policy Policy, req Requirement, fallback gomponents.Node, children ...gomponents.Node) gomponents.Node {
	if Evaluate(state, policy, req).Allowed() {
		return gomponents.Group(children)
	}
	if fallback == nil {
		return gomponents.Group(nil)
	}
	return fallback
}

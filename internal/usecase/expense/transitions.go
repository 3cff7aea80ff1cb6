package expense

import (
	domain "github.com/Godwinki/oya-backend/internal/domain/expense"
	"github.com/Godwinki/oya-backend/internal/domain/user"
)

// Op is one guarded workflow operation.
type Op string

const (
	OpAddItem       Op = "add items to"
	OpSubmit        Op = "submit"
	OpAccountant    Op = "accountant-approve"
	OpManager       Op = "manager-approve"
	OpProcess       Op = "process"
	OpComplete      Op = "complete"
	OpReject        Op = "reject"
	OpAttachReceipt Op = "attach receipts to"
)

// gate lists the roles allowed to perform an operation while the request sits
// in one particular status.
type gate struct {
	status domain.Status
	roles  []string
}

// rule is one row of the permission matrix: the statuses an operation accepts
// and, per status, who may act. owner additionally admits the requester.
type rule struct {
	gates []gate
	owner bool
}

// transitions is the whole role/state matrix in one place, consulted by
// guard() for every workflow operation.
var transitions = map[Op]rule{
	OpAddItem: {
		gates: []gate{{domain.StatusDraft, []string{user.RoleAdmin}}},
		owner: true,
	},
	OpSubmit: {
		gates: []gate{{domain.StatusDraft, []string{user.RoleAdmin}}},
		owner: true,
	},
	OpAccountant: {
		gates: []gate{{domain.StatusSubmitted, []string{user.RoleAccountant, user.RoleAdmin}}},
	},
	OpManager: {
		gates: []gate{{domain.StatusAccountantApproved, []string{user.RoleManager, user.RoleAdmin}}},
	},
	OpProcess: {
		gates: []gate{{domain.StatusManagerApproved, []string{user.RoleCashier, user.RoleAdmin}}},
	},
	OpComplete: {
		gates: []gate{{domain.StatusProcessed, []string{user.RoleAdmin}}},
		owner: true,
	},
	OpReject: {
		gates: []gate{
			{domain.StatusSubmitted, []string{user.RoleAccountant, user.RoleAdmin}},
			{domain.StatusAccountantApproved, []string{user.RoleManager, user.RoleAdmin}},
			{domain.StatusManagerApproved, []string{user.RoleCashier, user.RoleAdmin}},
		},
	},
	OpAttachReceipt: {
		gates: []gate{{domain.StatusProcessed, []string{user.RoleAdmin}}},
		owner: true,
	},
}

func (r rule) expected() []domain.Status {
	out := make([]domain.Status, len(r.gates))
	for i, g := range r.gates {
		out[i] = g.status
	}
	return out
}

// guard enforces the uniform transition contract: the current status must be
// an exact documented predecessor, and the actor must hold a permitted role
// (or own the request where the operation allows it).
func guard(op Op, req *domain.Request, actor Actor) error {
	r, ok := transitions[op]
	if !ok {
		return domain.ErrForbidden
	}
	for _, g := range r.gates {
		if g.status != req.Status {
			continue
		}
		if r.owner && req.IsOwnedBy(actor.ID) {
			return nil
		}
		for _, role := range g.roles {
			if role == actor.Role {
				return nil
			}
		}
		return domain.ErrForbidden
	}
	return &domain.InvalidTransitionError{
		Action:   string(op),
		Current:  req.Status,
		Expected: r.expected(),
	}
}

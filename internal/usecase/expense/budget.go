package expense

import (
	"go.uber.org/zap"

	"github.com/Godwinki/oya-backend/internal/domain/budget"
	domain "github.com/Godwinki/oya-backend/internal/domain/expense"
)

// exceedances runs the shared budget check over eager-loaded items: for each
// item, committing AmountToApply() must not push the category past its
// allocation. Advisory at approval stages, blocking at processing.
func (u *Usecase) exceedances(items []domain.Item, stage string) []budget.Exceedance {
	var out []budget.Exceedance
	for _, it := range items {
		if it.Category == nil {
			continue
		}
		requested := it.AmountToApply()
		used := it.Category.UsedAmount
		allocated := it.Category.AllocatedAmount

		u.log.Debug("budget check",
			zap.String("stage", stage),
			zap.String("category", it.Category.Name),
			zap.Float64("allocated", allocated),
			zap.Float64("currently_used", used),
			zap.Float64("requested", requested),
			zap.Bool("would_exceed", used+requested > allocated))

		if used+requested > allocated {
			out = append(out, budget.Exceedance{
				CategoryID:    it.CategoryID,
				CategoryName:  it.Category.Name,
				Allocated:     allocated,
				CurrentlyUsed: used,
				Requested:     requested,
				Deficit:       (used + requested) - allocated,
			})
		}
	}
	return out
}

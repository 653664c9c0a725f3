package service

import "catalog-web/internal/models"

// RejectedCandidate pairs a candidate dropped during reconciliation with the
// errors explaining why.
type RejectedCandidate struct {
	RowNum int
	Errors []models.RowError
}

// ReconcileResult partitions a batch into three disjoint sets.
type ReconcileResult struct {
	Inserts  []*models.ImportCandidate
	Updates  []*models.ImportCandidate
	Rejected []RejectedCandidate
}

// Reconciler resolves each candidate's action against a snapshot of the
// existing catalog keyed by SKU.
type Reconciler struct{}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Resolve classifies candidates in source row order:
//
//   - no SKU: always insert (name collisions are allowed, SKU is the only
//     business key)
//   - SKU already in the catalog (active or inactive): update that item,
//     reactivating it if needed
//   - SKU unknown: insert
//   - SKU repeated within the batch: first occurrence wins, later ones are
//     rejected
//
// The snapshot must cover inactive items too, otherwise a re-import of a
// soft-deleted product would create a duplicate SKU instead of reviving it.
// Iteration follows the candidate slice, never a map, so the first-seen-wins
// tie-break is deterministic across retries.
func (r *Reconciler) Resolve(candidates []*models.ImportCandidate, existing map[string]string) ReconcileResult {
	var result ReconcileResult
	seenSKUs := make(map[string]struct{})

	for _, cand := range candidates {
		if cand.SKU == "" {
			cand.Action = models.ActionInsert
			result.Inserts = append(result.Inserts, cand)
			continue
		}

		if _, dup := seenSKUs[cand.SKU]; dup {
			result.Rejected = append(result.Rejected, RejectedCandidate{
				RowNum: cand.RowNum,
				Errors: []models.RowError{{
					Row:     cand.RowNum,
					Field:   "sku",
					Message: "duplicate SKU within upload",
				}},
			})
			continue
		}
		seenSKUs[cand.SKU] = struct{}{}

		if targetID, ok := existing[cand.SKU]; ok {
			cand.Action = models.ActionUpdate
			cand.TargetID = targetID
			result.Updates = append(result.Updates, cand)
		} else {
			cand.Action = models.ActionInsert
			result.Inserts = append(result.Inserts, cand)
		}
	}

	return result
}

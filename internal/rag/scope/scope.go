package scope

import (
	"github.com/insightqa/insightqa/internal/domain/kbModel"
	"github.com/insightqa/insightqa/internal/rag/vectorDB"
)

// Build translates a retrieval scope into the vector index's filter:
//
//	no constraints            -> nil (search everything)
//	kb id only                -> one equality clause
//	one role                  -> one equality clause
//	several roles             -> one OR-group clause
//	kb id and roles           -> both clauses under the single top-level AND
//
// The store accepts only one top-level operator, so both constraints always
// travel as clauses of one filter rather than as siblings.
func Build(kbId string, roles []kbModel.DocumentRole) *vectorDB.Filter {
	var clauses []vectorDB.Clause

	if kbId != "" {
		clauses = append(clauses, vectorDB.Clause{
			Equals: &vectorDB.Equals{Field: vectorDB.FieldKbId, Value: kbId},
		})
	}

	switch len(roles) {
	case 0:
	case 1:
		clauses = append(clauses, vectorDB.Clause{
			Equals: &vectorDB.Equals{Field: vectorDB.FieldDocRole, Value: string(roles[0])},
		})
	default:
		group := make([]vectorDB.Equals, 0, len(roles))
		for _, r := range roles {
			group = append(group, vectorDB.Equals{Field: vectorDB.FieldDocRole, Value: string(r)})
		}
		clauses = append(clauses, vectorDB.Clause{AnyOf: group})
	}

	if len(clauses) == 0 {
		return nil
	}
	return &vectorDB.Filter{Clauses: clauses}
}

// Package models contains the gorm models of the relational content store
// and the admin accounts.
package models

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Expert{}, &ExpertExpertise{},
		&Service{}, &ServiceFeature{}, &ServiceBenefit{},
		&Industry{},
	}
}

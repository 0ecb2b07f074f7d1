// Package content binds the generic repository to the experts, services and
// industries tables and converts request input into repository values.
package content

import (
	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
	"github.com/CodeCraft-Studio/studio-site/internal/db/query"
	"github.com/CodeCraft-Studio/studio-site/internal/db/repository"
)

type (
	// Experts stores team members with their expertise list.
	Experts = repository.Repository[models.Expert, *models.Expert]
	// Services stores offerings with their features and benefits.
	Services = repository.Repository[models.Service, *models.Service]
	// Industries stores industries, they have no child collections.
	Industries = repository.Repository[models.Industry, *models.Industry]
)

// Store groups the content repositories.
type Store struct {
	Experts    *Experts
	Services   *Services
	Industries *Industries
}

// New creates all content repositories on exec.
func New(exec *query.Executor, opts ...repository.Option) *Store {
	return &Store{
		Experts:    repository.New[models.Expert, *models.Expert](exec, ExpertDescriptor(), opts...),
		Services:   repository.New[models.Service, *models.Service](exec, ServiceDescriptor(), opts...),
		Industries: repository.New[models.Industry, *models.Industry](exec, IndustryDescriptor(), opts...),
	}
}

// ExpertDescriptor describes the experts tables.
func ExpertDescriptor() repository.Descriptor {
	return repository.Descriptor{
		Table:   "experts",
		Scalars: []string{"name", "role", "bio", "image", "experience"},
		Collections: []repository.Collection{
			{Field: "expertise", Table: "expert_expertise", ForeignKey: "expert_id", Column: "expertise"},
		},
	}
}

// ServiceDescriptor describes the services tables.
func ServiceDescriptor() repository.Descriptor {
	return repository.Descriptor{
		Table:   "services",
		Scalars: []string{"title", "description", "image"},
		Collections: []repository.Collection{
			{Field: "features", Table: "service_features", ForeignKey: "service_id", Column: "feature"},
			{Field: "benefits", Table: "service_benefits", ForeignKey: "service_id", Column: "benefit"},
		},
	}
}

// IndustryDescriptor describes the industries table.
func IndustryDescriptor() repository.Descriptor {
	return repository.Descriptor{
		Table:   "industries",
		Scalars: []string{"name", "description", "image"},
	}
}
